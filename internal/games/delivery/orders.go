package delivery

import (
	"math/rand"

	"github.com/dkarpov/pattyhop/internal/config"
	"github.com/dkarpov/pattyhop/internal/core"
)

// IngredientKind identifies a burger ingredient.
type IngredientKind int

const (
	IngredientBun IngredientKind = iota
	IngredientPatty
	IngredientCheese
	IngredientLettuce
	IngredientTomato

	ingredientCount
)

// String returns the ingredient's display name.
func (k IngredientKind) String() string {
	switch k {
	case IngredientBun:
		return "Bun"
	case IngredientPatty:
		return "Patty"
	case IngredientCheese:
		return "Cheese"
	case IngredientLettuce:
		return "Lettuce"
	case IngredientTomato:
		return "Tomato"
	default:
		return "Unknown"
	}
}

// Glyph returns the rune used to render the ingredient.
func (k IngredientKind) Glyph() rune {
	switch k {
	case IngredientBun:
		return '∩'
	case IngredientPatty:
		return '▬'
	case IngredientCheese:
		return '▲'
	case IngredientLettuce:
		return '~'
	case IngredientTomato:
		return 'o'
	default:
		return '?'
	}
}

// Color returns the ingredient's render color.
func (k IngredientKind) Color() core.Color {
	switch k {
	case IngredientBun:
		return core.ColorYellow
	case IngredientPatty:
		return core.ColorRed
	case IngredientCheese:
		return core.ColorBrightYellow
	case IngredientLettuce:
		return core.ColorBrightGreen
	case IngredientTomato:
		return core.ColorBrightRed
	default:
		return core.ColorWhite
	}
}

// Pickup is an ingredient waiting on a platform. After collection it
// stays inactive until its respawn timer runs out.
type Pickup struct {
	Kind     IngredientKind
	Pos      core.Vec3
	Zone     core.Zone
	Active   bool
	respawn  float64
	platform int
}

// Order is a burger a customer wants, bottom ingredient first.
type Order struct {
	Items    []IngredientKind
	Deadline float64 // Seconds remaining
}

// Customer is the delivery target for the current order.
type Customer struct {
	Pos      core.Vec3
	Zone     core.Zone
	platform int
}

// OrderBook manages pickups, the customer, and order generation.
type OrderBook struct {
	Pickups  []*Pickup
	Customer Customer
	Current  Order

	cfg         config.DeliveryOrders
	pickupRange float64
	difficulty  *config.DifficultyManager
	rng         *rand.Rand
	world       *World
}

// NewOrderBook places one pickup per ingredient kind on random platforms
// and generates the first order.
func NewOrderBook(cfg config.DeliveryOrders, pickupRange float64, diff *config.DifficultyManager, world *World, rng *rand.Rand) *OrderBook {
	b := &OrderBook{
		cfg:         cfg,
		pickupRange: pickupRange,
		difficulty:  diff,
		rng:         rng,
		world:       world,
	}

	for k := IngredientKind(0); k < ingredientCount; k++ {
		p := &Pickup{Kind: k, Active: true}
		b.placePickup(p, 0)
		b.Pickups = append(b.Pickups, p)
	}

	b.NextOrder(0, 0)
	return b
}

// placePickup moves a pickup to a random platform, avoiding the
// excluded index.
func (b *OrderBook) placePickup(p *Pickup, exclude int) {
	p.platform = b.world.RandomPlatform(b.rng, exclude)
	p.Pos = b.world.SurfacePoint(b.rng, p.platform).Add(core.NewVec3(0, 0.5, 0))
	p.Zone = core.NewZone(p.Pos, b.pickupRange)
}

// NextOrder generates a fresh order and relocates the customer. The
// order length is biased toward the maximum as difficulty rises, and
// the deadline shrinks with it.
func (b *OrderBook) NextOrder(score int, elapsed float64) {
	weight := b.difficulty.OrderWeight(score, elapsed)

	span := b.cfg.MaxLength - b.cfg.MinLength
	length := b.cfg.MinLength
	if span > 0 {
		// Blend a uniform roll toward the max by the difficulty weight.
		roll := b.rng.Float64()
		biased := roll + weight*(1-roll)
		length += int(biased * float64(span+1))
		if length > b.cfg.MaxLength {
			length = b.cfg.MaxLength
		}
	}

	items := make([]IngredientKind, 0, length+2)
	items = append(items, IngredientBun)
	for i := 0; i < length; i++ {
		// Fillings only; buns bound the stack.
		k := IngredientKind(1 + b.rng.Intn(int(ingredientCount)-1))
		items = append(items, k)
	}
	items = append(items, IngredientBun)

	b.Current = Order{
		Items:    items,
		Deadline: b.difficulty.Deadline(b.cfg.DeadlineSeconds, score, elapsed),
	}

	b.Customer.platform = b.world.RandomPlatform(b.rng, b.Customer.platform)
	b.Customer.Pos = b.world.SurfacePoint(b.rng, b.Customer.platform)
	b.Customer.Zone = core.NewZone(b.Customer.Pos, b.cfg.CustomerRange)
}

// NextNeeded returns the next ingredient the carried stack requires, or
// false when the stack is complete.
func (b *OrderBook) NextNeeded(carried []IngredientKind) (IngredientKind, bool) {
	if len(carried) >= len(b.Current.Items) {
		return 0, false
	}
	return b.Current.Items[len(carried)], true
}

// StackComplete reports whether the carried stack fulfils the current
// order.
func (b *OrderBook) StackComplete(carried []IngredientKind) bool {
	if len(carried) != len(b.Current.Items) {
		return false
	}
	for i, k := range carried {
		if k != b.Current.Items[i] {
			return false
		}
	}
	return true
}

// TryCollect attempts to grab a pickup near the given point. Only the
// ingredient the order needs next can be collected; anything else is
// refused so the stack is always buildable in order. Returns the kind
// collected and whether a collection happened.
func (b *OrderBook) TryCollect(at core.Vec3, carried []IngredientKind) (IngredientKind, bool) {
	needed, ok := b.NextNeeded(carried)
	if !ok {
		return 0, false
	}

	for _, p := range b.Pickups {
		if !p.Active || p.Kind != needed {
			continue
		}
		if !p.Zone.WithinRange(at) {
			continue
		}
		p.Active = false
		p.respawn = b.cfg.RespawnSeconds
		return p.Kind, true
	}
	return 0, false
}

// Update ticks respawn timers and the order deadline. Returns true when
// the deadline expired this tick.
func (b *OrderBook) Update(delta float64) (expired bool) {
	for _, p := range b.Pickups {
		if p.Active {
			continue
		}
		p.respawn -= delta
		if p.respawn <= 0 {
			p.Active = true
			b.placePickup(p, p.platform)
		}
	}

	b.Current.Deadline -= delta
	return b.Current.Deadline <= 0
}

// TryDeliver attempts to hand the carried stack to the customer.
// Returns the points awarded and whether the delivery was accepted. A
// wrong or incomplete stack is refused and kept.
func (b *OrderBook) TryDeliver(at core.Vec3, carried []IngredientKind) (int, bool) {
	if !b.Customer.Zone.WithinRange(at) {
		return 0, false
	}
	if !b.StackComplete(carried) {
		return 0, false
	}

	points := 20 * len(b.Current.Items)
	// Speed bonus: up to 50% of the base for beating the clock.
	bonus := int(float64(points) * 0.5 * core.ClampF(b.Current.Deadline/b.cfg.DeadlineSeconds, 0, 1))
	return points + bonus, true
}
