// Package report renders organism register files and raw tick cell
// occupancy as tables, grounded on the teacher's core.PrintState, which
// renders a CGRA tile's register file and port buffers the same way.
package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/snapshot"
)

func valueString(v organism.Value) string {
	if v.IsVector {
		return v.Vec.String()
	}
	d := molecule.Decode(v.Scalar)
	return fmt.Sprintf("%s:%d", molecule.TypeName(d.Type), d.Value)
}

// Organism renders one organism's data, procedure, and formal-parameter
// register files as a table, plus a summary row of its scalar state
// (id, ip, energy, flags).
func Organism(o *organism.Organism) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Organism %d (%s)", o.ID, o.ProgramID))

	summary := table.NewWriter()
	summary.AppendHeader(table.Row{"ip", "dv", "er", "failed", "dead"})
	summary.AppendRow(table.Row{o.IP.String(), o.DV.String(), o.ER, o.InstructionFailed, o.IsDead})

	t.AppendHeader(table.Row{"Bank", "0", "1", "2", "3", "4", "5", "6", "7"})
	t.AppendRow(registerRow("DR", o.DRs[:]))
	t.AppendRow(registerRow("PR", o.PRs[:]))

	fprRow := table.Row{"FPR"}
	for _, v := range o.FPRs {
		fprRow = append(fprRow, valueString(v))
	}
	for len(fprRow) < 9 {
		fprRow = append(fprRow, "")
	}
	t.AppendRow(fprRow)

	return summary.Render() + "\n" + t.Render()
}

func registerRow(label string, values []organism.Value) table.Row {
	row := table.Row{label}
	for _, v := range values {
		row = append(row, valueString(v))
	}
	return row
}

// TickCells renders a raw tick's recorded (non-empty-or-owned) cells as
// a table: coordinate, molecule type, value, owner.
func TickCells(state snapshot.RawTickState) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Tick %d cells", state.TickNumber))
	t.AppendHeader(table.Row{"Coord", "Type", "Value", "Owner"})
	for _, c := range state.Cells {
		d := molecule.Decode(c.MoleculeWord)
		t.AppendRow(table.Row{c.Coord.String(), molecule.TypeName(d.Type), d.Value, c.OwnerID})
	}
	return t.Render()
}
