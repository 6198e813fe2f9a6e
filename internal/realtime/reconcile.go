package realtime

import (
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"umlforge/internal/diagram"
	"umlforge/internal/models"
)

// DefaultDragHold is how long after drag-end incoming snapshots stay
// suppressed, giving the drag's own save time to flush.
const DefaultDragHold = 200 * time.Millisecond

// Reconciler applies remote snapshots to local diagram state under three
// rules: never apply a session's own echo, never apply while a drag gesture
// is live (or within the hold window after it), and never replace state with
// a semantically identical snapshot.
type Reconciler struct {
	mu        sync.Mutex
	sessionID string
	dragHold  time.Duration
	dragging  bool
	dragUntil time.Time
	now       func() time.Time

	classes      []models.UMLClass
	associations []models.Association

	onChange func(models.DiagramData)
	logger   *zap.Logger
}

func NewReconciler(sessionID string, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		sessionID: sessionID,
		dragHold:  DefaultDragHold,
		now:       time.Now,
		logger:    logger,
	}
}

// OnChange registers a callback invoked with the new state whenever a
// snapshot is applied.
func (r *Reconciler) OnChange(fn func(models.DiagramData)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// SetState replaces local state directly, for initial load and local edits.
func (r *Reconciler) SetState(data models.DiagramData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = data.Classes
	r.associations = data.Associations
}

func (r *Reconciler) Snapshot() models.DiagramData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.DiagramData{Classes: r.classes, Associations: r.associations}
}

func (r *Reconciler) BeginDrag() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dragging = true
}

func (r *Reconciler) EndDrag() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dragging = false
	r.dragUntil = r.now().Add(r.dragHold)
}

func (r *Reconciler) suppressed() bool {
	return r.dragging || r.now().Before(r.dragUntil)
}

// Apply feeds an incoming update into local state and reports whether state
// changed. Discarded updates are not an error; they are superseded by the
// local session's own pending save.
func (r *Reconciler) Apply(u Update) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.Type != UpdateTypeUpdate || u.DiagramData == nil {
		return false
	}
	if u.UserID != "" && u.UserID == r.sessionID {
		return false
	}
	if r.suppressed() {
		r.logger.Debug("snapshot discarded during drag", zap.String("diagram_id", u.DiagramID))
		return false
	}

	classes := diagram.DedupClasses(u.DiagramData.Classes, r.logger)
	associations := diagram.DedupAssociations(u.DiagramData.Associations, r.logger)

	if reflect.DeepEqual(classes, r.classes) && reflect.DeepEqual(associations, r.associations) {
		return false
	}

	r.classes = classes
	r.associations = associations
	if r.onChange != nil {
		r.onChange(models.DiagramData{Classes: classes, Associations: associations})
	}
	return true
}
