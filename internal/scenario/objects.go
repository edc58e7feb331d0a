package scenario

// ObjectType tags every kind of scenario object the map can store.
type ObjectType string

// Object types
const (
	TypeFortification ObjectType = "fort"
	TypeStack         ObjectType = "stack"
	TypeSite          ObjectType = "site"
	TypeRuin          ObjectType = "ruin"
	TypeCrystal       ObjectType = "crystal"
	TypeBag           ObjectType = "bag"
	TypeLandmark      ObjectType = "landmark"
	TypeUnit          ObjectType = "unit"
	TypeItem          ObjectType = "item"
	TypePlayer        ObjectType = "player"
	TypeSubRace       ObjectType = "subrace"
)

// ObjectID uniquely identifies a scenario object within a map.
type ObjectID string

// SiteKind distinguishes the site variants.
type SiteKind string

// Site kinds
const (
	SiteMerchant  SiteKind = "merchant"
	SiteMage      SiteKind = "mage"
	SiteMercenary SiteKind = "mercenary"
	SiteTrainer   SiteKind = "trainer"
	SiteMarket    SiteKind = "resource_market"
)

// Object is anything the scenario map owns and looks up by id.
type Object interface {
	ObjectID() ObjectID
	Type() ObjectType
}

// Inventory is an ordered set of item object ids.
type Inventory []ObjectID

// Add appends an item id.
func (inv *Inventory) Add(id ObjectID) {
	*inv = append(*inv, id)
}

// Currency is an amount per resource type.
type Currency map[ResourceType]int

// Set stores the amount for a resource.
func (c Currency) Set(resource ResourceType, amount int) {
	c[resource] = amount
}

// Fortification is a village or a capital: a garrison, an optional
// visitor stack inside, and approach corridors kept open by the gap mask.
type Fortification struct {
	MapElement
	ID        ObjectID    `json:"id"`
	Capital   bool        `json:"capital,omitempty"`
	Name      string      `json:"name"`
	OwnerID   ObjectID    `json:"ownerId,omitempty"`
	SubraceID ObjectID    `json:"subraceId,omitempty"`
	Tier      int         `json:"tier,omitempty"`
	GapMask   uint8       `json:"gapMask,omitempty"`
	StackID   ObjectID    `json:"stackId,omitempty"`
	Garrison  Group       `json:"garrison"`
	Items     Inventory   `json:"items,omitempty"`
	AiPriority int        `json:"aiPriority,omitempty"`
}

// ObjectID implements Object.
func (f *Fortification) ObjectID() ObjectID { return f.ID }

// Type implements Object.
func (f *Fortification) Type() ObjectType { return TypeFortification }

// NewCapital creates a capital fortification. Capitals are 5x5.
func NewCapital(id ObjectID) *Fortification {
	return &Fortification{
		MapElement: NewMapElement(Position{X: 5, Y: 5}),
		ID:         id,
		Capital:    true,
	}
}

// NewVillage creates a village fortification. Villages are 4x4.
func NewVillage(id ObjectID) *Fortification {
	return &Fortification{
		MapElement: NewMapElement(Position{X: 4, Y: 4}),
		ID:         id,
	}
}

// Stack is a roaming or guarding group of units.
type Stack struct {
	MapElement
	ID         ObjectID  `json:"id"`
	Units      Group     `json:"group"`
	Items      Inventory `json:"items,omitempty"`
	OwnerID    ObjectID  `json:"ownerId,omitempty"`
	SubraceID  ObjectID  `json:"subraceId,omitempty"`
	InsideID   ObjectID  `json:"insideId,omitempty"`
	Move       int       `json:"move,omitempty"`
	Facing     Facing    `json:"facing"`
	Order      OrderType `json:"order"`
	AiPriority int       `json:"aiPriority,omitempty"`
}

// ObjectID implements Object.
func (s *Stack) ObjectID() ObjectID { return s.ID }

// Type implements Object.
func (s *Stack) Type() ObjectType { return TypeStack }

// LeaderID returns the group leader's unit id.
func (s *Stack) LeaderID() ObjectID { return s.Units.LeaderID }

// NewStack creates an empty 1x1 stack.
func NewStack(id ObjectID) *Stack {
	return &Stack{
		MapElement: NewMapElement(Position{X: 1, Y: 1}),
		ID:         id,
		Order:      OrderNormal,
	}
}

// Site is a visitable location: merchant, mage tower, mercenary camp,
// trainer or resource market. Sites are 3x3.
type Site struct {
	MapElement
	ID          ObjectID `json:"id"`
	Kind        SiteKind `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImgISO      int      `json:"imgIso"`
	AiPriority  int      `json:"aiPriority,omitempty"`

	// Merchant goods: item id -> amount
	Goods map[string]int `json:"goods,omitempty"`
	// Mage spells for sale
	Spells []string `json:"spells,omitempty"`
	// Mercenary units for hire
	Hires []HireEntry `json:"hires,omitempty"`
	// Market exchange rates and stock
	ExchangeRates map[ResourceType]map[ResourceType]int `json:"exchangeRates,omitempty"`
	Stock         Currency                              `json:"stock,omitempty"`
	InfiniteStock map[ResourceType]bool                 `json:"infiniteStock,omitempty"`
}

// HireEntry is a single mercenary offer.
type HireEntry struct {
	UnitID string `json:"unitId"`
	Level  int    `json:"level"`
	Unique bool   `json:"unique"`
}

// ObjectID implements Object.
func (s *Site) ObjectID() ObjectID { return s.ID }

// Type implements Object.
func (s *Site) Type() ObjectType { return TypeSite }

// AddGood adds amount of an item to the merchant's goods.
func (s *Site) AddGood(itemID string, amount int) {
	if s.Goods == nil {
		s.Goods = make(map[string]int)
	}
	s.Goods[itemID] += amount
}

// NewSite creates a 3x3 site of the given kind.
func NewSite(id ObjectID, kind SiteKind) *Site {
	return &Site{
		MapElement: NewMapElement(Position{X: 3, Y: 3}),
		ID:         id,
		Kind:       kind,
	}
}

// Ruin is an explorable location guarded by a fixed group, holding gold
// and a single loot item. Ruins are 3x3.
type Ruin struct {
	MapElement
	ID         ObjectID `json:"id"`
	Title      string   `json:"title"`
	Image      int      `json:"image"`
	Guard      Group    `json:"guard"`
	Cash       Currency `json:"cash,omitempty"`
	ItemID     ObjectID `json:"itemId,omitempty"`
	AiPriority int      `json:"aiPriority,omitempty"`
}

// ObjectID implements Object.
func (r *Ruin) ObjectID() ObjectID { return r.ID }

// Type implements Object.
func (r *Ruin) Type() ObjectType { return TypeRuin }

// NewRuin creates a 3x3 ruin.
func NewRuin(id ObjectID) *Ruin {
	return &Ruin{
		MapElement: NewMapElement(Position{X: 3, Y: 3}),
		ID:         id,
	}
}

// Crystal is a resource crystal. Crystals are 1x1; placement reserves a
// larger probe area around them so rods can reach.
type Crystal struct {
	MapElement
	ID       ObjectID     `json:"id"`
	Resource ResourceType `json:"resource"`
}

// ObjectID implements Object.
func (c *Crystal) ObjectID() ObjectID { return c.ID }

// Type implements Object.
func (c *Crystal) Type() ObjectType { return TypeCrystal }

// NewCrystal creates a 1x1 crystal.
func NewCrystal(id ObjectID, resource ResourceType) *Crystal {
	return &Crystal{
		MapElement: NewMapElement(Position{X: 1, Y: 1}),
		ID:         id,
		Resource:   resource,
	}
}

// Bag is a dropped item bag.
type Bag struct {
	MapElement
	ID         ObjectID  `json:"id"`
	Image      int       `json:"image"`
	Items      Inventory `json:"items,omitempty"`
	AiPriority int       `json:"aiPriority,omitempty"`
}

// ObjectID implements Object.
func (b *Bag) ObjectID() ObjectID { return b.ID }

// Type implements Object.
func (b *Bag) Type() ObjectType { return TypeBag }

// Add puts an item into the bag.
func (b *Bag) Add(itemID ObjectID) {
	b.Items.Add(itemID)
}

// NewBag creates a 1x1 bag.
func NewBag(id ObjectID) *Bag {
	return &Bag{
		MapElement: NewMapElement(Position{X: 1, Y: 1}),
		ID:         id,
	}
}

// Landmark is a decorative map element.
type Landmark struct {
	MapElement
	ID         ObjectID `json:"id"`
	LandmarkID string   `json:"landmarkId"`
}

// ObjectID implements Object.
func (l *Landmark) ObjectID() ObjectID { return l.ID }

// Type implements Object.
func (l *Landmark) Type() ObjectType { return TypeLandmark }

// NewLandmark creates a landmark of the given size.
func NewLandmark(id ObjectID, size Position) *Landmark {
	return &Landmark{
		MapElement: NewMapElement(size),
		ID:         id,
	}
}

// Unit is a single creature instance referenced from groups.
type Unit struct {
	ID        ObjectID `json:"id"`
	ImplID    string   `json:"implId"`
	Name      string   `json:"name,omitempty"`
	Level     int      `json:"level,omitempty"`
	HP        int      `json:"hp"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// ObjectID implements Object.
func (u *Unit) ObjectID() ObjectID { return u.ID }

// Type implements Object.
func (u *Unit) Type() ObjectType { return TypeUnit }

// AddModifier attaches a modifier by catalog id.
func (u *Unit) AddModifier(modifierID string) {
	u.Modifiers = append(u.Modifiers, modifierID)
}

// Item is a single item instance referenced from inventories.
type Item struct {
	ID         ObjectID `json:"id"`
	ItemTypeID string   `json:"itemTypeId"`
}

// ObjectID implements Object.
func (i *Item) ObjectID() ObjectID { return i.ID }

// Type implements Object.
func (i *Item) Type() ObjectType { return TypeItem }

// Player is a scenario participant.
type Player struct {
	ID   ObjectID `json:"id"`
	Race RaceType `json:"race"`
}

// ObjectID implements Object.
func (p *Player) ObjectID() ObjectID { return p.ID }

// Type implements Object.
func (p *Player) Type() ObjectType { return TypePlayer }

// SubRace binds a subrace to its owning player.
type SubRace struct {
	ID       ObjectID    `json:"id"`
	SubRace  SubRaceType `json:"subrace"`
	PlayerID ObjectID    `json:"playerId,omitempty"`
	Banner   int         `json:"banner,omitempty"`
}

// ObjectID implements Object.
func (s *SubRace) ObjectID() ObjectID { return s.ID }

// Type implements Object.
func (s *SubRace) Type() ObjectType { return TypeSubRace }
