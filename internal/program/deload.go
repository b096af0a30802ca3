package program

import (
	"strings"
	"time"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

// DeloadNote is appended to the recovery notes every time a deload is applied.
const DeloadNote = "Deload applied: one set removed from every exercise to manage fatigue."

// DeloadConfirmation is returned to the user after a deload.
const DeloadConfirmation = "Got it. I've applied a deload to your program: every exercise drops one set this week so you can recover."

const minSets = 1

// ApplyDeload removes one set from every exercise, never going below one set. Exercises already
// at or below the floor are left as they are. It mutates p in place and stamps LastDeloadAt.
func ApplyDeload(p *domain.Program, now time.Time) {
	if p == nil {
		return
	}
	for d := range p.Days {
		for e := range p.Days[d].Exercises {
			ex := &p.Days[d].Exercises[e]
			if ex.Sets > minSets {
				ex.Sets--
			}
		}
	}

	if strings.TrimSpace(p.RecoveryNotes) == "" {
		p.RecoveryNotes = DeloadNote
	} else {
		p.RecoveryNotes = p.RecoveryNotes + "\n\n" + DeloadNote
	}
	stamp := now
	p.LastDeloadAt = &stamp
	p.UpdatedAt = now
}

// DeloadedWithin reports whether a deload happened in the given window before now.
func DeloadedWithin(p *domain.Program, window time.Duration, now time.Time) bool {
	if p == nil || p.LastDeloadAt == nil {
		return false
	}
	return now.Sub(*p.LastDeloadAt) < window
}
