package resolve

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formvars/pkg/payload"
)

// submissionPlaceholderPrefix marks pre-persistence placeholder ids inside
// tracking tokens. Tokens carrying it do not identify a real lead yet.
const submissionPlaceholderPrefix = "submission-"

// SystemOption customises the system variable provider.
type SystemOption func(*SystemVariables)

// WithClock injects the time source used for timestamp and token synthesis.
func WithClock(now func() time.Time) SystemOption {
	return func(s *SystemVariables) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand injects the random source used when synthesising lead ids. The
// function receives an exclusive upper bound.
func WithRand(randInt func(int) int) SystemOption {
	return func(s *SystemVariables) {
		if randInt != nil {
			s.randInt = randInt
		}
	}
}

// WithSystemLogger injects the logger for synthesis decisions.
func WithSystemLogger(logger *zap.Logger) SystemOption {
	return func(s *SystemVariables) {
		if logger != nil {
			s.log = logger.Named("sysvars")
		}
	}
}

// SystemVariables serves the reserved variable names that are synthesised
// rather than looked up: timestamp, leadId, and trackingToken. Reserved names
// always produce a value — they never fall through to "not found".
type SystemVariables struct {
	now     func() time.Time
	randInt func(int) int
	log     *zap.Logger
}

// NewSystemVariables constructs a provider with wall-clock time and
// math/rand defaults.
func NewSystemVariables(options ...SystemOption) *SystemVariables {
	s := &SystemVariables{
		now:     time.Now,
		randInt: rand.Intn,
		log:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Is reports whether name is a reserved system variable, tolerating case and
// separator variations (time_stamp, lead_id, tracking_token).
func (s *SystemVariables) Is(name string) bool {
	switch normalizeKey(name) {
	case "timestamp", "leadid", "trackingtoken":
		return true
	default:
		return false
	}
}

// Resolve produces the value for a reserved name. The bool reports whether
// the name was reserved at all; when true, the value is always non-empty.
func (s *SystemVariables) Resolve(formID, name string, flat payload.Flat) (string, bool) {
	switch normalizeKey(name) {
	case "timestamp":
		return strconv.FormatInt(s.now().UnixMilli(), 10), true
	case "leadid":
		return s.LeadID(formID, flat), true
	case "trackingtoken":
		return s.TrackingToken(formID, flat), true
	default:
		return "", false
	}
}

// LeadID resolves or synthesises a lead identifier: a literal leadId/lead_id
// payload field first, then id/submissionId, then the id portion of a
// tracking token, and finally a synthesised lead-<form>-<n> value.
func (s *SystemVariables) LeadID(formID string, flat payload.Flat) string {
	for _, key := range []string{"leadId", "lead_id", "id", "submissionId"} {
		if value, ok := flat.GetFold(key); ok {
			if id := stringValue(value); id != "" {
				return id
			}
		}
	}
	if token, ok := flat.GetFold("trackingToken"); ok {
		if id := leadIDFromToken(stringValue(token)); id != "" {
			return id
		}
	}
	synthesised := fmt.Sprintf("lead-%s-%d", shortFormID(formID), s.randInt(10000))
	s.log.Info("synthesised lead id",
		zap.String("form_id", formID),
		zap.String("lead_id", synthesised))
	return synthesised
}

// TrackingToken passes a payload token through unchanged, or synthesises
// <leadId>-<timestamp> when the payload carries none.
func (s *SystemVariables) TrackingToken(formID string, flat payload.Flat) string {
	for _, key := range []string{"trackingToken", "tracking_token"} {
		if value, ok := flat.GetFold(key); ok {
			if token := stringValue(value); token != "" {
				return token
			}
		}
	}
	return fmt.Sprintf("%s-%d", s.LeadID(formID, flat), s.now().UnixMilli())
}

// leadIDFromToken extracts the identifier portion of an <id>_<timestamp> or
// <id>-<timestamp> token. Placeholder ids minted before persistence are
// rejected so a real id can be synthesised instead.
func leadIDFromToken(token string) string {
	idx := strings.LastIndexAny(token, "_-")
	if idx <= 0 || idx == len(token)-1 {
		return ""
	}
	if !allDigits(token[idx+1:]) {
		return ""
	}
	id := token[:idx]
	if strings.HasPrefix(id, submissionPlaceholderPrefix) {
		return ""
	}
	return id
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func shortFormID(formID string) string {
	if len(formID) > 8 {
		return formID[:8]
	}
	if formID == "" {
		return "unknown"
	}
	return formID
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
