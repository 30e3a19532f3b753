package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// State es el estado de moderación de un testimonio. Se persiste con una letra.
type State string

// Estados del ciclo de vida.
const (
	StatePending   State = "E" // ESPERA
	StateApproved  State = "A" // APROBADO
	StateRejected  State = "R" // RECHAZADO
	StatePublished State = "P" // PUBLICADO
	StateDraft     State = "B" // BORRADOR
	StateHidden    State = "O" // OCULTO
)

var stateNames = map[State]string{
	StatePending:   "ESPERA",
	StateApproved:  "APROBADO",
	StateRejected:  "RECHAZADO",
	StatePublished: "PUBLICADO",
	StateDraft:     "BORRADOR",
	StateHidden:    "OCULTO",
}

// AllStates en el orden de presentación.
var AllStates = []State{StatePending, StateApproved, StateRejected, StatePublished, StateDraft, StateHidden}

// ParseState acepta la letra ("E") o el nombre ("ESPERA"), sin distinguir mayúsculas.
func ParseState(s string) (State, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := stateNames[State(v)]; ok {
		return State(v), true
	}
	for st, name := range stateNames {
		if name == v {
			return st, true
		}
	}
	return "", false
}

// Valid indica si s es uno de los seis estados.
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// Name devuelve el nombre largo (ESPERA, APROBADO, ...).
func (s State) Name() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return string(s)
}

// Límites de archivos adjuntos.
const (
	MaxFiles          = 4
	MaxFileBytes      = 5 << 20
	MaxTotalFileBytes = 20 << 20
)

var (
	minRating = decimal.NewFromInt(1)
	maxRating = decimal.NewFromInt(5)
)

// ValidRating indica si r está en [1,5] con a lo sumo un decimal.
func ValidRating(r decimal.Decimal) bool {
	if r.LessThan(minRating) || r.GreaterThan(maxRating) {
		return false
	}
	return r.Equal(r.Truncate(1))
}

// Testimonial es un comentario de un cliente sobre una organización.
// El autor es AuthorID o el par anónimo (AnonymousName, AnonymousEmail), nunca ambos.
type Testimonial struct {
	ID             string
	OrganizationID string
	CategoryID     *string
	AuthorID       *string
	AnonymousName  string
	AnonymousEmail string
	AccessKey      string
	Comment        string
	Link           string
	Files          []string
	Rating         decimal.Decimal
	State          State
	Feedback       *string // solo no nulo en RECHAZADO
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAnonymous indica si el testimonio no tiene autor registrado.
func (t *Testimonial) IsAnonymous() bool {
	return t.AuthorID == nil || *t.AuthorID == ""
}

// IsAuthoredBy indica si userID es el autor registrado.
func (t *Testimonial) IsAuthoredBy(userID string) bool {
	return userID != "" && !t.IsAnonymous() && *t.AuthorID == userID
}

// SetAuthor registra un autor y limpia el par anónimo.
func (t *Testimonial) SetAuthor(userID string) {
	t.AuthorID = &userID
	t.AnonymousName = ""
	t.AnonymousEmail = ""
}
