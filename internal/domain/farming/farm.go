package farming

import (
	"github.com/mars-sim/mars-sim-sub055/internal/domain/goods"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/housekeeping"
)

// TissueWork is the lab work needed to turn a tissue culture into a seedling
const TissueWork = 50.0

// Farm is the greenhouse function of a building
type Farm struct {
	beds         int
	catalog      []CropSpec
	crops        []*Crop
	seedlings    []CropSpec
	tissue       map[string]float64
	samples      map[string]int
	harvested    float64
	houseKeeping *housekeeping.HouseKeeping
}

// NewFarm creates an empty greenhouse with the given number of beds
func NewFarm(beds int, catalog []CropSpec, hk *housekeeping.HouseKeeping) *Farm {
	return &Farm{
		beds:         beds,
		catalog:      append([]CropSpec(nil), catalog...),
		tissue:       make(map[string]float64),
		samples:      make(map[string]int),
		houseKeeping: hk,
	}
}

func (f *Farm) Beds() int                                { return f.beds }
func (f *Farm) Harvested() float64                       { return f.harvested }
func (f *Farm) HouseKeeping() *housekeeping.HouseKeeping { return f.houseKeeping }

// Crops returns a snapshot of the planted crops
func (f *Farm) Crops() []*Crop {
	return append([]*Crop(nil), f.crops...)
}

// Plant puts a crop straight into a free bed
func (f *Farm) Plant(spec CropSpec) (*Crop, bool) {
	if !f.HasFreeBed() {
		return nil, false
	}
	c := NewCrop(spec)
	f.crops = append(f.crops, c)
	return c, true
}

// HasFreeBed reports whether a seedling could be transferred
func (f *Farm) HasFreeBed() bool {
	return len(f.crops) < f.beds
}

// CropsNeedingTending lists crops with outstanding care
func (f *Farm) CropsNeedingTending() []*Crop {
	var out []*Crop
	for _, c := range f.crops {
		if c.NeedsTending() {
			out = append(out, c)
		}
	}
	return out
}

// MostWorkStarvedCrop returns the crop with the most outstanding work
func (f *Farm) MostWorkStarvedCrop() *Crop {
	var best *Crop
	for _, c := range f.CropsNeedingTending() {
		if best == nil || c.workRequired > best.workRequired {
			best = c
		}
	}
	return best
}

// AddSeedling adds a seedling ready for transfer
func (f *Farm) AddSeedling(spec CropSpec) {
	f.seedlings = append(f.seedlings, spec)
}

func (f *Farm) HasSeedling() bool { return len(f.seedlings) > 0 }

// TransferSeedling plants the oldest seedling into a free bed
func (f *Farm) TransferSeedling() (*Crop, bool) {
	if !f.HasSeedling() || !f.HasFreeBed() {
		return nil, false
	}
	spec := f.seedlings[0]
	f.seedlings = f.seedlings[1:]
	return f.Plant(spec)
}

// SampleCrop takes a lab sample from the least healthy growing crop
func (f *Farm) SampleCrop() (*Crop, bool) {
	var pick *Crop
	for _, c := range f.crops {
		if c.phase != CropGrowing {
			continue
		}
		if pick == nil || c.health < pick.health {
			pick = c
		}
	}
	if pick == nil {
		return nil, false
	}
	f.samples[pick.spec.Name]++
	return pick, true
}

// Samples returns how many samples of a crop type were taken
func (f *Farm) Samples(crop string) int {
	return f.samples[crop]
}

// GrowTissue puts lab work into the least developed tissue culture. A
// culture that reaches TissueWork becomes a seedling; its name is returned.
func (f *Farm) GrowTissue(work float64) (string, bool) {
	if work <= 0 || len(f.catalog) == 0 {
		return "", false
	}
	target := f.catalog[0]
	for _, spec := range f.catalog[1:] {
		if f.tissue[spec.Name] < f.tissue[target.Name] {
			target = spec
		}
	}
	f.tissue[target.Name] += work
	if f.tissue[target.Name] < TissueWork {
		return "", false
	}
	f.tissue[target.Name] = 0
	f.AddSeedling(target)
	return target.Name, true
}

// TissueProgress returns the lab work put into a culture
func (f *Farm) TissueProgress(crop string) float64 {
	return f.tissue[crop]
}

// CropsToHarvest lists crops waiting for harvest work
func (f *Farm) CropsToHarvest() []*Crop {
	var out []*Crop
	for _, c := range f.crops {
		if c.phase == CropHarvesting {
			out = append(out, c)
		}
	}
	return out
}

// HasHarvest reports whether any crop is ready or waiting to be collected
func (f *Farm) HasHarvest() bool {
	for _, c := range f.crops {
		if c.phase == CropHarvesting || c.phase == CropFinished {
			return true
		}
	}
	return false
}

// HarvestReady stores the produce of finished crops and frees their beds.
// Returns the kg stored.
func (f *Farm) HarvestReady(inv *goods.Inventory) float64 {
	total := 0.0
	kept := f.crops[:0]
	for _, c := range f.crops {
		if c.phase != CropFinished {
			kept = append(kept, c)
			continue
		}
		y := c.Yield()
		inv.Store(c.spec.Produce, y)
		total += y
	}
	for i := len(kept); i < len(f.crops); i++ {
		f.crops[i] = nil
	}
	f.crops = kept
	f.harvested += total
	return total
}

// TimePassing grows every crop
func (f *Farm) TimePassing(pulse float64) {
	for _, c := range f.crops {
		c.TimePassing(pulse)
	}
}

// AverageHealth is the mean crop health, 1 for an empty farm
func (f *Farm) AverageHealth() float64 {
	if len(f.crops) == 0 {
		return 1
	}
	sum := 0.0
	for _, c := range f.crops {
		sum += c.health
	}
	return sum / float64(len(f.crops))
}
