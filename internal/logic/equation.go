package logic

import (
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// productLimit stops products from overflowing; no target comes close.
const productLimit = 1 << 40

func selectionIDs(sel []*field.Block) []field.BlockID {
	ids := make([]field.BlockID, len(sel))
	for i, b := range sel {
		ids[i] = b.ID
	}
	return ids
}

// checkProduct removes the selection when its product equals the target and
// clears it once the product can no longer divide the target.
func checkProduct(ctx *Context, target field.Value) {
	sel := ctx.Field.Selection()
	if len(sel) == 0 || target.Num <= 0 {
		return
	}
	p := 1
	for _, b := range sel {
		p *= b.Value.Num
		if p <= 0 || p > productLimit {
			break
		}
	}
	switch {
	case p == target.Num && len(sel) >= 2:
		ctx.push(&instruction.RemoveBlocks{IDs: selectionIDs(sel)})
	case p <= 0 || p > target.Num || target.Num%p != 0:
		ctx.push(&instruction.ClearSelection{})
	}
}

// checkSum removes the selection when it adds up to the target and clears it
// once the sum overshoots.
func checkSum(ctx *Context, target field.Value) {
	sel := ctx.Field.Selection()
	if len(sel) == 0 || target.Num <= 0 {
		return
	}
	s := 0
	for _, b := range sel {
		s += b.Value.Num
	}
	switch {
	case s == target.Num && len(sel) >= 2:
		ctx.push(&instruction.RemoveBlocks{IDs: selectionIDs(sel)})
	case s > target.Num:
		ctx.push(&instruction.ClearSelection{})
	}
}

// checkEquivalent removes matchSize mutually equivalent blocks and clears a
// selection holding a non-equivalent pair.
func checkEquivalent(ctx *Context, matchSize int) {
	sel := ctx.Field.Selection()
	if len(sel) < 2 {
		return
	}
	first := sel[0].Value
	for _, b := range sel[1:] {
		if !b.Value.Equivalent(first) {
			ctx.push(&instruction.ClearSelection{})
			return
		}
	}
	if len(sel) >= matchSize {
		ctx.push(&instruction.RemoveBlocks{IDs: selectionIDs(sel)})
	}
}

// checkFactoring accepts exactly one product block together with at least two
// primes that multiply to it.
func checkFactoring(ctx *Context, maxTerms int) {
	sel := ctx.Field.Selection()
	var prod *field.Block
	primes, p := 0, 1
	for _, b := range sel {
		if b.Kind == field.KindProduct {
			if prod != nil {
				ctx.push(&instruction.ClearSelection{})
				return
			}
			prod = b
			continue
		}
		primes++
		if p <= productLimit {
			p *= b.Value.Num
		}
	}
	if prod == nil {
		if primes > maxTerms {
			ctx.push(&instruction.ClearSelection{})
		}
		return
	}
	want := prod.Value.Num
	switch {
	case p == want && primes >= 2:
		ctx.push(&instruction.RemoveBlocks{IDs: selectionIDs(sel)})
	case p <= 0 || p > want || want%p != 0:
		ctx.push(&instruction.ClearSelection{})
	}
}
