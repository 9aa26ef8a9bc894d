package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/vecprov/internal/usecase/provision"
)

const rule = "=================================================="

// textReporter prints provisioning progress for humans.
type textReporter struct {
	w         io.Writer
	inventory bool // inventory header printed
}

func newTextReporter(w io.Writer) *textReporter {
	return &textReporter{w: w}
}

func (r *textReporter) Result(res provision.Result) {
	switch res.Status {
	case provision.StatusCreated:
		fmt.Fprintf(r.w, "created          %s\n", res.Name)
	case provision.StatusAlreadyExisted:
		fmt.Fprintf(r.w, "already existed  %s\n", res.Name)
	default:
		fmt.Fprintf(r.w, "FAILED           %s: %v\n", res.Name, res.Err)
	}
}

func (r *textReporter) Entry(e provision.Entry) {
	if !r.inventory {
		fmt.Fprintf(r.w, "%s\nCollections in store:\n", rule)
		r.inventory = true
	}
	fmt.Fprintf(r.w, "  - %s: %s\n", e.Name, e.Description)
	fmt.Fprintf(r.w, "    fields: [%s]\n", strings.Join(e.Fields, ", "))
	if e.Err != nil {
		fmt.Fprintf(r.w, "    entities: unknown (%v)\n", e.Err)
		return
	}
	fmt.Fprintf(r.w, "    entities: %d\n", e.EntityCount)
}

func (r *textReporter) Done(s provision.Summary) {
	if !r.inventory {
		fmt.Fprintf(r.w, "%s\nCollections in store: none\n", rule)
	}
	fmt.Fprintln(r.w, rule)
	if len(s.Results) == 0 {
		fmt.Fprintf(r.w, "%d collection(s) in store\n", len(s.Inventory))
		return
	}
	fmt.Fprintf(r.w, "%d created, %d already existed, %d failed, %d in store\n",
		s.Count(provision.StatusCreated),
		s.Count(provision.StatusAlreadyExisted),
		s.Count(provision.StatusFailed),
		len(s.Inventory))
}
