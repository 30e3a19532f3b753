package moderation

import (
	"fmt"
	"strings"

	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
)

// Snapshot es el estado relevante de un testimonio antes de una transición.
type Snapshot struct {
	State    entity.State
	Feedback *string
}

// SnapshotOf toma el estado y el feedback de t.
func SnapshotOf(t *entity.Testimonial) Snapshot {
	return Snapshot{State: t.State, Feedback: t.Feedback}
}

// TransitionRequest es lo que pide el llamador. Feedback nil significa "no enviado".
type TransitionRequest struct {
	Target   entity.State
	Feedback *string
}

// Outcome es el resultado de una transición válida. Changed es false si nada debe persistirse.
type Outcome struct {
	State    entity.State
	Feedback *string
	Changed  bool
}

// estados entre los que se mueven editores y admins; BORRADOR queda fuera.
var moderated = map[entity.State]bool{
	entity.StatePending:   true,
	entity.StateApproved:  true,
	entity.StateRejected:  true,
	entity.StateHidden:    true,
	entity.StatePublished: true,
}

type edge struct{ from, to entity.State }

var authorEdges = map[edge]bool{
	{entity.StateDraft, entity.StatePending}:  true,
	{entity.StatePending, entity.StateDraft}:  true,
	{entity.StateRejected, entity.StateDraft}: true,
}

func moderatorAllows(from, to entity.State) bool {
	return moderated[from] && moderated[to]
}

func authorAllows(from, to entity.State) bool {
	return authorEdges[edge{from, to}]
}

// ValidateTransition decide si rel puede llevar el testimonio de current a req.Target y calcula el feedback resultante.
// Entrar en RECHAZADO exige feedback (salvo que ya exista); salir de RECHAZADO lo borra.
func ValidateTransition(current Snapshot, req TransitionRequest, rel Relationship) (Outcome, error) {
	caps := ResolvePermissions(rel)
	if !caps.Moderate && !caps.AuthorTransitions {
		return Outcome{}, domain.Denied("no tiene permisos para cambiar el estado de este testimonio")
	}
	if !req.Target.Valid() {
		return Outcome{}, domain.Invalid("estado", fmt.Sprintf("estado desconocido: %q", string(req.Target)))
	}

	allowed := (caps.Moderate && moderatorAllows(current.State, req.Target)) ||
		(caps.AuthorTransitions && authorAllows(current.State, req.Target))
	if !allowed {
		return Outcome{}, domain.NewError(domain.ErrInvalidTransition, "estado",
			fmt.Sprintf("transición %s → %s no permitida", current.State.Name(), req.Target.Name()))
	}

	out := Outcome{State: req.Target}
	if req.Target != entity.StateRejected {
		out.Changed = current.State != req.Target || current.Feedback != nil
		return out, nil
	}

	existing := trimmed(current.Feedback)
	requested := trimmed(req.Feedback)
	switch {
	case current.State == entity.StateRejected && existing != "":
		if requested != "" && requested != existing {
			return Outcome{}, domain.NewError(domain.ErrImmutableFeedback, "feedback",
				"el feedback de un testimonio rechazado no puede modificarse")
		}
		out.Feedback = current.Feedback
	case requested != "":
		out.Feedback = &requested
	case existing != "":
		out.Feedback = &existing
	default:
		return Outcome{}, domain.NewError(domain.ErrMissingFeedback, "feedback",
			"el feedback es obligatorio al rechazar un testimonio")
	}
	out.Changed = current.State != entity.StateRejected || !sameText(current.Feedback, out.Feedback)
	return out, nil
}

// AttachFeedback adjunta feedback a un testimonio en ESPERA y lo pasa a RECHAZADO en un solo paso.
func AttachFeedback(current Snapshot, feedback string, rel Relationship) (Outcome, error) {
	if !ResolvePermissions(rel).AttachFeedback {
		return Outcome{}, domain.Denied("solo un editor de la organización o un admin puede adjuntar feedback")
	}
	if current.State != entity.StatePending {
		return Outcome{}, domain.NewError(domain.ErrInvalidTransition, "estado",
			fmt.Sprintf("solo se puede adjuntar feedback en ESPERA (estado actual %s)", current.State.Name()))
	}
	fb := strings.TrimSpace(feedback)
	if fb == "" {
		return Outcome{}, domain.NewError(domain.ErrMissingFeedback, "feedback", "el feedback no puede estar vacío")
	}
	return Outcome{State: entity.StateRejected, Feedback: &fb, Changed: true}, nil
}

// CheckInvariant verifica que el feedback exista si y solo si el estado es RECHAZADO.
func CheckInvariant(state entity.State, feedback *string) error {
	has := trimmed(feedback) != ""
	if state == entity.StateRejected && !has {
		return domain.NewError(domain.ErrMissingFeedback, "feedback", "un testimonio rechazado debe tener feedback")
	}
	if state != entity.StateRejected && feedback != nil {
		return domain.Invalid("feedback", "solo un testimonio rechazado puede tener feedback")
	}
	return nil
}

// ContentEditable indica si el autor aún puede editar el contenido en este estado.
func ContentEditable(s entity.State) bool {
	return s == entity.StatePending || s == entity.StateDraft || s == entity.StateRejected
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
