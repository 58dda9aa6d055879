package mesh

import (
	"fmt"

	"github.com/WendellTech/blockmesh/internal/assign"
	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/status"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

// assignBlocks is the single assignment pass. Voxels are visited in source
// order; that order fixes the used-name list and is otherwise irrelevant.
func (m *BlockMesh) assignBlocks(src voxel.Source, p Params) error {
	a, err := p.Resolver.ResolveAtlas(p.AtlasID)
	if err != nil {
		return fmt.Errorf("resolve atlas %q: %w", p.AtlasID, err)
	}
	pal, err := p.Resolver.ResolvePalette(p.PaletteID)
	if err != nil {
		return fmt.Errorf("resolve palette %q: %w", p.PaletteID, err)
	}
	m.atlas = a

	all, err := atlas.NewCollection(a, pal, nil)
	if err != nil {
		return err
	}
	// The substituting modes re-classify against the palette minus every
	// fallable name. Built up front so an unusable configuration fails the
	// whole construction instead of a single voxel.
	var solid *atlas.Collection
	if p.Mode == ModeReplaceFallable || p.Mode == ModeReplaceFalling {
		solid, err = atlas.NewCollection(a, pal, p.Fallable.ExcludeSet())
		if err != nil {
			return err
		}
	}

	voxels := src.Voxels()
	h := p.Progress.Start("assigning blocks")
	defer p.Progress.End(h)

	used := make(map[string]struct{})
	m.blocks = make([]Block, 0, len(voxels))
	for i, v := range voxels {
		info := p.Assigner.Assign(all, v.Colour, v.Position, p.Resolution, p.ColourSpace)

		isFallable := p.Fallable.Contains(info.Name)
		isSupported := src.IsOccupied(v.Position.Down())
		if isFallable && !isSupported {
			m.fallingCount++
		}

		switch p.Mode {
		case ModeReplaceFallable:
			if isFallable {
				// Substitution always matches in RGB, whatever the pass
				// was configured with.
				info = p.Assigner.Assign(solid, v.Colour, v.Position, p.Resolution, assign.RGB)
			}
		case ModeReplaceFalling:
			if isFallable && !isSupported {
				info = p.Assigner.Assign(solid, v.Colour, v.Position, p.Resolution, assign.RGB)
			}
		}

		m.blocks = append(m.blocks, Block{Voxel: v, Info: info})
		if _, seen := used[info.Name]; !seen {
			used[info.Name] = struct{}{}
			m.usedNames = append(m.usedNames, info.Name)
		}
		p.Progress.Report(h, float64(i+1)/float64(len(voxels)))
	}

	if p.Mode == ModeDoNothing && m.fallingCount > 0 {
		p.Status.Add(status.Warning,
			fmt.Sprintf("%d block(s) will fall under gravity when this structure is placed", m.fallingCount))
	}
	return nil
}
