package field

// StepResult reports the events of one physics tick.
type StepResult struct {
	Landed    []BlockID // blocks that came to rest this tick
	Activated []BlockID // incoming blocks that crossed the floor
	NeedRow   bool      // a rising field wants a new incoming row
	ToppedOut bool      // a resting block reaches above the top row
}

// Step advances the physics by one tick.
//
// Rising layouts first push every non-falling block up. Falling blocks are
// then moved column by column from the bottom up, so a block only ever lands
// on a support that has already been resolved this tick.
func (f *Field) Step() StepResult {
	var res StepResult
	f.tick++

	if f.spec.Rising && f.pushSpeed > 0 {
		f.rise(&res)
	}

	for c := range f.cols {
		f.fall(&f.cols[c], &res)
	}

	limit := f.rows * CellH
	for c := range f.cols {
		for _, b := range f.cols[c].blocks {
			if !b.Falling && !b.Incoming && b.Top() > limit {
				res.ToppedOut = true
			}
		}
	}
	return res
}

func (f *Field) rise(res *StepResult) {
	f.pushOffset += f.pushSpeed
	for c := range f.cols {
		for _, b := range f.cols[c].blocks {
			if !b.Falling {
				b.Y += f.pushSpeed
			}
		}
	}
	if f.pushOffset < CellH {
		return
	}
	f.pushOffset -= CellH
	for c := range f.cols {
		for _, b := range f.cols[c].blocks {
			if b.Incoming && b.Y >= 0 {
				b.Incoming = false
				res.Activated = append(res.Activated, b.ID)
			}
		}
	}
	res.NeedRow = true
}

func (f *Field) fall(col *Column, res *StepResult) {
	for i, b := range col.blocks {
		if !b.Falling {
			continue
		}
		floor := f.floorY()
		var support *Block
		if i > 0 {
			support = col.blocks[i-1]
			floor = support.Top()
		}
		if y := b.Y - f.fallSpeed; y > floor {
			b.Y = y
			continue
		}
		b.Y = floor
		if support == nil || !support.Falling {
			b.Falling = false
			res.Landed = append(res.Landed, b.ID)
		}
	}
}
