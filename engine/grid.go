package engine

import (
	"fmt"

	"github.com/hungernads/nads-core/model"
)

// TileType distinguishes the center tile from the rest of the board.
type TileType string

const (
	Cornucopia TileType = "CORNUCOPIA"
	Edge       TileType = "EDGE"
)

// Tile is one arena cell. Occupancy is the single source of truth; the
// agent's Position field is a mirror updated through the grid accessors.
type Tile struct {
	Coord      model.HexCoord
	Type       TileType
	StormLevel int
	occupant   int // agent id, 0 = empty
	items      []model.Item
}

// Occupant returns the occupying agent id, if any.
func (t *Tile) Occupant() (int, bool) {
	return t.occupant, t.occupant != 0
}

// Items returns the tile's items in insertion order.
func (t *Tile) Items() []model.Item {
	return t.items
}

// Grid is the 19-tile arena honeycomb.
type Grid struct {
	tiles map[model.HexCoord]*Tile
}

// NewGrid builds the radius-2 board. Storm levels: the outer ring turns
// lethal first (HUNT), the inner ring at BLOOD, the cornucopia never.
func NewGrid() *Grid {
	g := &Grid{tiles: make(map[model.HexCoord]*Tile, 19)}
	for _, c := range model.ArenaCoords() {
		t := &Tile{Coord: c, Type: Edge, StormLevel: model.StormLevelAt(c)}
		if c.Ring() == 0 {
			t.Type = Cornucopia
		}
		g.tiles[c] = t
	}
	return g
}

// Tile looks up a cell, failing with ErrOutOfBounds for coordinates off the
// board.
func (g *Grid) Tile(c model.HexCoord) (*Tile, error) {
	t, ok := g.tiles[c]
	if !ok {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, c.Q, c.R)
	}
	return t, nil
}

// IsValid reports whether the coordinate names a board tile.
func (g *Grid) IsValid(c model.HexCoord) bool {
	_, ok := g.tiles[c]
	return ok
}

// Occupant returns the agent occupying c, if any. Off-board coordinates are
// simply unoccupied.
func (g *Grid) Occupant(c model.HexCoord) (int, bool) {
	t, ok := g.tiles[c]
	if !ok {
		return 0, false
	}
	return t.Occupant()
}

// Place sets the occupant of c. Fails with ErrTileOccupied if another agent
// is already there.
func (g *Grid) Place(agentID int, c model.HexCoord) error {
	t, err := g.Tile(c)
	if err != nil {
		return err
	}
	if t.occupant != 0 && t.occupant != agentID {
		return fmt.Errorf("%w: (%d,%d) held by agent %d", ErrTileOccupied, c.Q, c.R, t.occupant)
	}
	t.occupant = agentID
	return nil
}

// Clear empties the occupant of c. Fails with ErrTileEmpty when nobody is
// there.
func (g *Grid) Clear(c model.HexCoord) error {
	t, err := g.Tile(c)
	if err != nil {
		return err
	}
	if t.occupant == 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrTileEmpty, c.Q, c.R)
	}
	t.occupant = 0
	return nil
}

// AddItem drops an item onto its tile (insertion order preserved).
func (g *Grid) AddItem(item model.Item) error {
	t, err := g.Tile(item.Position)
	if err != nil {
		return err
	}
	t.items = append(t.items, item)
	return nil
}

// TakeItem removes and returns the item with the given id from c.
func (g *Grid) TakeItem(c model.HexCoord, itemID int) (model.Item, bool) {
	t, ok := g.tiles[c]
	if !ok {
		return model.Item{}, false
	}
	for i, it := range t.items {
		if it.ID == itemID {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return it, true
		}
	}
	return model.Item{}, false
}

// FirstItem returns the first item on c matching the filter, in insertion
// order.
func (g *Grid) FirstItem(c model.HexCoord, match func(model.Item) bool) (model.Item, bool) {
	t, ok := g.tiles[c]
	if !ok {
		return model.Item{}, false
	}
	for _, it := range t.items {
		if match(it) {
			return it, true
		}
	}
	return model.Item{}, false
}

// UnoccupiedCoords returns every empty tile in the stable board order.
func (g *Grid) UnoccupiedCoords() []model.HexCoord {
	var out []model.HexCoord
	for _, c := range model.ArenaCoords() {
		if t := g.tiles[c]; t.occupant == 0 {
			out = append(out, c)
		}
	}
	return out
}

// AllItems returns every board item in stable board order, insertion order
// within a tile.
func (g *Grid) AllItems() []model.Item {
	var out []model.Item
	for _, c := range model.ArenaCoords() {
		out = append(out, g.tiles[c].items...)
	}
	return out
}

// ItemCount reports the number of items sitting on the board.
func (g *Grid) ItemCount() int {
	n := 0
	for _, t := range g.tiles {
		n += len(t.items)
	}
	return n
}

// checkOccupancy verifies the tile↔agent mirror: every occupied tile's agent
// reports that coordinate and no agent appears twice. Returns the first
// inconsistency found.
func (g *Grid) checkOccupancy(agents map[int]*model.Agent) error {
	seen := make(map[int]model.HexCoord)
	for _, c := range model.ArenaCoords() {
		t := g.tiles[c]
		if t.occupant == 0 {
			continue
		}
		if prev, dup := seen[t.occupant]; dup {
			return fmt.Errorf("agent %d occupies both (%d,%d) and (%d,%d)", t.occupant, prev.Q, prev.R, c.Q, c.R)
		}
		seen[t.occupant] = c
		a, ok := agents[t.occupant]
		if !ok {
			return fmt.Errorf("tile (%d,%d) held by unknown agent %d", c.Q, c.R, t.occupant)
		}
		if a.Position != c {
			return fmt.Errorf("agent %d position (%d,%d) disagrees with tile (%d,%d)", a.ID, a.Position.Q, a.Position.R, c.Q, c.R)
		}
	}
	return nil
}
