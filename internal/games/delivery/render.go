package delivery

import (
	"fmt"

	"github.com/dkarpov/pattyhop/internal/core"
	"github.com/dkarpov/pattyhop/internal/engine"
)

// Render glyphs.
const (
	PlatformChar   = '█'
	PlatformEdge   = '▓'
	PlayerChar     = '@'
	CustomerChar   = '☺'
	ShadowChar     = '▒'
	SoftShadowChar = '░'
)

// worldNode renders the platform field.
type worldNode struct {
	world *World
}

func (n *worldNode) Draw(p *engine.RenderPass) {
	w, h := p.Screen.Width(), p.Screen.Height()

	// Sample each platform's top surface on a grid. Higher detail means
	// denser samples, which closes gaps on wide viewports.
	step := 0.6 / p.Detail

	for _, plat := range n.world.Platforms {
		v := plat.Volume
		top := v.Max.Y
		for wx := v.Min.X; wx <= v.Max.X; wx += step {
			for wz := v.Min.Z; wz <= v.Max.Z; wz += step {
				x, y, depth, ok := p.Camera.Project(core.NewVec3(wx, top, wz), w, h)
				if !ok {
					continue
				}
				glyph := PlatformChar
				if p.Detail > 1.0 && (wx < v.Min.X+step || wx > v.Max.X-step || wz < v.Min.Z+step || wz > v.Max.Z-step) {
					glyph = PlatformEdge
				}
				p.Screen.SetDepth(x, y, glyph, p.FogColor(plat.Color, depth), depth)
			}
		}
	}
}

// entityNode renders a single world-space glyph with an optional drop
// shadow on the platform below.
type entityNode struct {
	world *World
	pos   func() core.Vec3
	glyph func() rune
	color func() core.Color
}

func (n *entityNode) Draw(p *engine.RenderPass) {
	w, h := p.Screen.Width(), p.Screen.Height()
	pos := n.pos()

	if p.Shadows {
		if top, ok := n.world.HighestTopBelow(pos); ok && pos.Y-top > 0.1 {
			shadow := ShadowChar
			if p.SoftShadows {
				shadow = SoftShadowChar
			}
			if x, y, depth, ok := p.Camera.Project(core.NewVec3(pos.X, top, pos.Z), w, h); ok {
				// Bias slightly nearer so the shadow wins over the slab cell.
				p.Screen.SetDepth(x, y, shadow, core.ColorDarkGray, depth-0.01)
			}
		}
	}

	if x, y, depth, ok := p.Camera.Project(pos, w, h); ok {
		p.Screen.SetDepth(x, y, n.glyph(), p.FogColor(n.color(), depth), depth)
	}
}

// pickupsNode renders every active ingredient pickup.
type pickupsNode struct {
	world *World
	book  *OrderBook
}

func (n *pickupsNode) Draw(p *engine.RenderPass) {
	w, h := p.Screen.Width(), p.Screen.Height()

	for _, pk := range n.book.Pickups {
		if !pk.Active {
			continue
		}
		if p.Shadows {
			if top, ok := n.world.HighestTopBelow(pk.Pos); ok && pk.Pos.Y-top > 0.1 {
				shadow := ShadowChar
				if p.SoftShadows {
					shadow = SoftShadowChar
				}
				if x, y, depth, ok := p.Camera.Project(core.NewVec3(pk.Pos.X, top, pk.Pos.Z), w, h); ok {
					p.Screen.SetDepth(x, y, shadow, core.ColorDarkGray, depth-0.01)
				}
			}
		}
		if x, y, depth, ok := p.Camera.Project(pk.Pos, w, h); ok {
			p.Screen.SetDepth(x, y, pk.Kind.Glyph(), p.FogColor(pk.Kind.Color(), depth), depth)
		}
	}
}

// playerNode renders the courier and the carried ingredient stack above
// their head.
type playerNode struct {
	world  *World
	player *Player
}

func (n *playerNode) Draw(p *engine.RenderPass) {
	w, h := p.Screen.Width(), p.Screen.Height()
	pos := n.player.Pos

	if p.Shadows {
		if top, ok := n.world.HighestTopBelow(pos); ok && pos.Y-top > 0.1 {
			shadow := ShadowChar
			if p.SoftShadows {
				shadow = SoftShadowChar
			}
			if x, y, depth, ok := p.Camera.Project(core.NewVec3(pos.X, top, pos.Z), w, h); ok {
				p.Screen.SetDepth(x, y, shadow, core.ColorDarkGray, depth-0.01)
			}
		}
	}

	body := n.player.Center()
	if x, y, depth, ok := p.Camera.Project(body, w, h); ok {
		p.Screen.SetDepth(x, y, PlayerChar, p.FogColor(core.ColorBrightWhite, depth), depth)
	}

	// Carried stack floats above the player, bottom ingredient lowest.
	for i, k := range n.player.Carried {
		itemPos := pos.Add(core.NewVec3(0, n.player.height+0.4+float64(i)*0.4, 0))
		if x, y, depth, ok := p.Camera.Project(itemPos, w, h); ok {
			p.Screen.SetDepth(x, y, k.Glyph(), p.FogColor(k.Color(), depth), depth)
		}
	}
}

// hudNode renders score, order contents, deadline and miss count as a
// flat overlay, drawn after the world nodes.
type hudNode struct {
	game *Game
}

func (n *hudNode) Draw(p *engine.RenderPass) {
	g := n.game
	s := p.Screen

	s.DrawTextColored(1, 0, fmt.Sprintf("Score: %d", g.score), core.ColorBrightWhite)

	// Order stack, bottom first, with collected items dimmed out.
	x := 1
	s.DrawText(x, 1, "Order: ")
	x += 7
	for i, k := range g.orders.Current.Items {
		c := k.Color()
		if i < len(g.player.Carried) {
			c = core.ColorDarkGray
		}
		s.SetCell(x, 1, k.Glyph(), c)
		x += 2
	}

	deadline := g.orders.Current.Deadline
	if deadline < 0 {
		deadline = 0
	}
	timer := fmt.Sprintf("%4.0fs", deadline)
	timerColor := core.ColorBrightGreen
	if deadline < 10 {
		timerColor = core.ColorBrightRed
	}
	s.DrawTextColored(s.Width()-len(timer)-1, 0, timer, timerColor)

	if g.mode == ModeTimed {
		misses := fmt.Sprintf("Misses: %d/%d", g.misses, g.cfg.Orders.MissesAllowed)
		s.DrawTextColored(s.Width()-len(misses)-1, 1, misses, core.ColorGray)
	} else {
		delivered := fmt.Sprintf("Delivered: %d", g.deliveries)
		s.DrawTextColored(s.Width()-len(delivered)-1, 1, delivered, core.ColorGray)
	}

	if g.paused {
		s.DrawTextCentered(s.Height()/2, "PAUSED")
	}
	if g.gameOver {
		s.DrawTextCentered(s.Height()/2-1, "GAME OVER")
		s.DrawTextCentered(s.Height()/2, fmt.Sprintf("Final score: %d", g.score))
		s.DrawTextCentered(s.Height()/2+1, "Press R to restart")
	}
	if g.screenTooSmall {
		s.DrawTextCentered(s.Height()/2, "Terminal too small")
	}
}
