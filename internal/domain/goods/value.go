package goods

// Valuer exposes the settlement-wide demand tables. Values are per kg for
// resources and per kW·sol for power.
type Valuer interface {
	ResourceValue(r ResourceID) float64
	PowerValue() float64
}

// CommerceType scales a settlement's appetite for a class of activity
type CommerceType string

const (
	CommerceManufacturing CommerceType = "manufacturing"
	CommerceCooking       CommerceType = "cooking"
	CommerceResearch      CommerceType = "research"
	CommerceTourism       CommerceType = "tourism"
)

// ValueTable is an in-memory Valuer with commerce multipliers
type ValueTable struct {
	resources map[ResourceID]float64
	power     float64
	commerce  map[CommerceType]float64
}

// NewValueTable creates a table with the given power value
func NewValueTable(powerValue float64) *ValueTable {
	return &ValueTable{
		resources: make(map[ResourceID]float64),
		power:     powerValue,
		commerce:  make(map[CommerceType]float64),
	}
}

// SetResourceValue sets the demand value of one kg of a resource
func (t *ValueTable) SetResourceValue(r ResourceID, value float64) *ValueTable {
	t.resources[r] = value
	return t
}

// SetCommerceFactor sets the multiplier for a commerce type
func (t *ValueTable) SetCommerceFactor(c CommerceType, factor float64) *ValueTable {
	t.commerce[c] = factor
	return t
}

func (t *ValueTable) ResourceValue(r ResourceID) float64 {
	return t.resources[r]
}

func (t *ValueTable) PowerValue() float64 {
	return t.power
}

// CommerceFactor returns the multiplier for a commerce type, 1 when unset
func (t *ValueTable) CommerceFactor(c CommerceType) float64 {
	if f, ok := t.commerce[c]; ok {
		return f
	}
	return 1
}

// QuantityValue returns the total value of a list of quantities
func QuantityValue(v Valuer, items []Quantity) float64 {
	total := 0.0
	for _, q := range items {
		total += v.ResourceValue(q.Resource) * q.Amount
	}
	return total
}
