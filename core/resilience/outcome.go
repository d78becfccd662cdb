// Package resilience resolves scenario names into DetailedMetrics, falling
// back to simulated data when the remote source is unreachable.
//
// Every remote attempt is classified into exactly one Outcome:
//
//	Resolved         the upstream answered with a usable payload
//	Dropped          the upstream answered but declined the scenario
//	TransportFailed  no usable answer; the fallback payload is substituted
//
// A dropped scenario is excluded from its batch. A batch fails only when
// no scenario resolves at all.
package resilience

import (
	"errors"

	"github.com/kilianp07/routekpi/core/model"
)

// ErrUnresolvable is returned when a batch yields no metrics at all.
var ErrUnresolvable = errors.New("unable to resolve scenario(s)")

// Outcome classifies a remote attempt.
type Outcome int

const (
	Resolved Outcome = iota
	Dropped
	TransportFailed
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Dropped:
		return "dropped"
	case TransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// Attempt is the classified result of one remote fetch.
type Attempt struct {
	Outcome Outcome
	Payload model.SummaryPayload
	Reason  string
}

// Classify maps a fetch result onto an Attempt. Any error is a transport
// failure; a payload carrying success=false is dropped.
func Classify(p model.SummaryPayload, err error) Attempt {
	switch {
	case err != nil:
		return Attempt{Outcome: TransportFailed, Reason: err.Error()}
	case p.Declined():
		return Attempt{Outcome: Dropped, Payload: p, Reason: "upstream reported success=false"}
	default:
		return Attempt{Outcome: Resolved, Payload: p}
	}
}
