package ui

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"healthdash/domain/core"
	"healthdash/domain/health"
	"healthdash/internal/api"
	"healthdash/internal/derive"
	apperrors "healthdash/internal/errors"
	"healthdash/internal/render"
	"healthdash/internal/session"
	"healthdash/internal/tutorial"
	"healthdash/ports"
)

// Selection mutation ops accepted by PATCH /api/sessions/:id/selection.
const (
	opSetStates       = "set_states"
	opSetYear         = "set_year"
	opSetIndicator    = "set_indicator"
	opSetColumns      = "set_columns"
	opSetSearch       = "set_search"
	opToggleSelectAll = "toggle_select_all"
)

type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

type selectionRequest struct {
	Op        string   `json:"op"`
	States    []string `json:"states"`
	Year      *int     `json:"year"`
	Indicator string   `json:"indicator"`
	Columns   []string `json:"columns"`
	Search    *string  `json:"search"`
}

// indicatorMeta is the wire form of one selectable indicator.
type indicatorMeta struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	AxisLabel string `json:"axisLabel"`
}

func indicatorMetas() []indicatorMeta {
	indicators := health.Indicators()
	metas := make([]indicatorMeta, 0, len(indicators))
	for _, ind := range indicators {
		metas = append(metas, indicatorMeta{
			ID:        string(ind),
			Label:     ind.Label(),
			AxisLabel: ind.AxisLabel(),
		})
	}
	return metas
}

// stepMeta carries one tutorial step pre-rendered for the page shell.
type stepMeta struct {
	Index int
	Title string
	Body  template.HTML
}

func tutorialStepMetas() []stepMeta {
	steps := tutorial.Steps()
	metas := make([]stepMeta, 0, len(steps))
	for _, step := range steps {
		metas = append(metas, stepMeta{Index: step.Index, Title: step.Title, Body: step.HTML()})
	}
	return metas
}

// errorStatus maps domain errors onto HTTP statuses: missing sessions
// are 404, rejected input is 400, derivations blocked on unset inputs
// are 409, everything else is 500.
func errorStatus(err error) (int, string) {
	switch {
	case core.IsNotFoundError(err):
		return http.StatusNotFound, apperrors.CodeNotFound
	case core.IsInputError(err):
		return http.StatusBadRequest, apperrors.CodeInvalidInput
	case core.IsConfigError(err):
		return http.StatusConflict, apperrors.CodeConfigInvalid
	}
	if apperrors.IsAppError(err) {
		code := apperrors.GetCode(err)
		switch code {
		case apperrors.CodeNotFound:
			return http.StatusNotFound, code
		case apperrors.CodeInvalidInput, apperrors.CodeDataFormat:
			return http.StatusBadRequest, code
		default:
			return http.StatusInternalServerError, code
		}
	}
	return http.StatusInternalServerError, apperrors.CodeInternalError
}

func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func (s *Server) lookupSession(c *gin.Context) (*session.Session, bool) {
	sess, err := s.sessions.Get(core.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sess, true
}

// persistSnapshot saves the session's current selection. Snapshots are
// recovery state, not the source of truth, so failures are logged and
// the request proceeds. Caller holds the session lock.
func (s *Server) persistSnapshot(ctx context.Context, sess *session.Session) {
	sid, err := uuid.Parse(sess.ID.String())
	if err != nil {
		return
	}
	snapshot := &ports.SelectionSnapshot{
		SessionID:   sid,
		Selection:   sess.Selection(),
		Version:     sess.NextVersion(),
		LastUpdated: time.Now(),
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		log.Printf("[API] Failed to persist selection for session %s: %v", sess.ID, err)
	}
}

func (s *Server) metaPayload() gin.H {
	report := s.store.Report()
	return gin.H{
		"states":     s.store.States(),
		"years":      s.store.Years(),
		"indicators": indicatorMetas(),
		"defaults": gin.H{
			"states":    derive.DefaultStates,
			"year":      s.store.MaxYear(),
			"indicator": string(health.DefaultIndicator),
			"columns":   derive.DefaultColumns(),
		},
		"dataset": gin.H{
			"rows":   report.Loaded,
			"states": len(s.store.States()),
			"hash":   report.Hash,
		},
	}
}

// handleMeta returns the dataset's choice lists and session defaults
func (s *Server) handleMeta(c *gin.Context) {
	c.JSON(http.StatusOK, s.metaPayload())
}

// handleCreateSession creates a session, resuming a previous selection
// when the request names a session that is still live or has a
// persisted snapshot.
func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.InvalidInput("request body must be JSON"))
			return
		}
	}

	// A live session resumes in place.
	if req.SessionID != "" {
		if sess, err := s.sessions.Get(core.ID(req.SessionID)); err == nil {
			sess.Lock()
			sel := sess.Selection()
			sess.Unlock()
			c.JSON(http.StatusOK, gin.H{
				"session_id": sess.ID.String(),
				"resumed":    true,
				"selection":  sel,
				"meta":       s.metaPayload(),
			})
			return
		}
	}

	sess := s.sessions.Create()
	resumed := false

	// A snapshot left by a previous process restores into the fresh
	// session and is re-keyed to its id.
	if req.SessionID != "" {
		if oldID, err := uuid.Parse(req.SessionID); err == nil {
			snapshot, err := s.snapshots.Load(c.Request.Context(), oldID)
			if err != nil {
				log.Printf("[API] Failed to load snapshot for %s: %v", req.SessionID, err)
			} else if snapshot != nil {
				sess.Lock()
				if err := sess.RestoreSelection(snapshot.Selection); err != nil {
					log.Printf("[API] Discarding unusable snapshot for %s: %v", req.SessionID, err)
				} else {
					resumed = true
					s.persistSnapshot(c.Request.Context(), sess)
				}
				sess.Unlock()
				if resumed {
					if err := s.snapshots.Delete(c.Request.Context(), oldID); err != nil {
						log.Printf("[API] Failed to drop stale snapshot %s: %v", req.SessionID, err)
					}
				}
			}
		}
	}

	s.hub.Broadcast(api.NewDashboardEvent(sess.ID.String(), api.EventSessionCreated,
		map[string]interface{}{"resumed": resumed}))

	sess.Lock()
	sel := sess.Selection()
	sess.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID.String(),
		"resumed":    resumed,
		"selection":  sel,
		"meta":       s.metaPayload(),
	})
}

// handleGetSession returns the session's selection and engine counters
func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID.String(),
		"created_at": sess.CreatedAt,
		"selection":  sess.Selection(),
		"stats": gin.H{
			"current": sess.Engine().CurrentStats(),
			"trend":   sess.Engine().TrendStats(),
		},
	})
}

// handleDeleteSession drops the session and its persisted snapshot
func (s *Server) handleDeleteSession(c *gin.Context) {
	id := core.ID(c.Param("id"))
	if !s.sessions.Remove(id) {
		respondError(c, core.ErrSessionNotFound)
		return
	}
	if sid, err := uuid.Parse(id.String()); err == nil {
		if err := s.snapshots.Delete(c.Request.Context(), sid); err != nil {
			log.Printf("[API] Failed to delete snapshot for %s: %v", id, err)
		}
	}
	s.hub.Broadcast(api.NewDashboardEvent(id.String(), api.EventSessionClosed, nil))
	c.JSON(http.StatusOK, gin.H{"session_id": id.String(), "closed": true})
}

// handleSelection applies one mutation op to the session's inputs,
// persists the new selection, and reports which derived outputs the
// write invalidated.
func (s *Server) handleSelection(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("request body must be JSON"))
		return
	}

	sess.Lock()
	defer sess.Unlock()

	in := sess.Inputs()
	before := captureRevisions(in)

	var changed bool
	switch req.Op {
	case opSetStates:
		changed = in.SetStates(req.States)

	case opSetYear:
		if req.Year == nil {
			respondError(c, apperrors.InvalidInput("set_year requires a year"))
			return
		}
		changed = in.SetYear(*req.Year)

	case opSetIndicator:
		rev := in.Revision(derive.FieldIndicator)
		if err := in.SetIndicator(health.Indicator(req.Indicator)); err != nil {
			respondError(c, err)
			return
		}
		changed = in.Revision(derive.FieldIndicator) != rev

	case opSetColumns:
		cols := make([]derive.Column, 0, len(req.Columns))
		for _, raw := range req.Columns {
			col, err := derive.ParseColumn(raw)
			if err != nil {
				respondError(c, err)
				return
			}
			cols = append(cols, col)
		}
		rev := in.Revision(derive.FieldColumns)
		if err := in.SetColumns(cols); err != nil {
			respondError(c, err)
			return
		}
		changed = in.Revision(derive.FieldColumns) != rev

	case opSetSearch:
		if req.Search == nil {
			respondError(c, apperrors.InvalidInput("set_search requires search text"))
			return
		}
		changed = in.SetSearch(*req.Search)

	case opToggleSelectAll:
		changed = in.ToggleSelectAll(s.store.States())

	default:
		respondError(c, apperrors.InvalidInput(fmt.Sprintf("unknown selection op %q", req.Op)))
		return
	}

	invalidated := invalidatedOutputs(in, before)

	if changed {
		s.persistSnapshot(c.Request.Context(), sess)
		s.hub.Broadcast(api.NewDashboardEvent(sess.ID.String(), api.EventSelectionChanged,
			map[string]interface{}{"op": req.Op, "invalidated": invalidated}))
	}

	c.JSON(http.StatusOK, gin.H{
		"selection":   sess.Selection(),
		"invalidated": invalidated,
	})
}

// captureRevisions snapshots the revision counters of the fields the
// derived slices declare.
func captureRevisions(in *derive.Inputs) [3]uint64 {
	return [3]uint64{
		in.Revision(derive.FieldStates),
		in.Revision(derive.FieldYear),
		in.Revision(derive.FieldIndicator),
	}
}

// invalidatedOutputs lists the derived outputs whose declared inputs
// moved past the captured revisions.
func invalidatedOutputs(in *derive.Inputs, before [3]uint64) []string {
	states := in.Revision(derive.FieldStates) != before[0]
	year := in.Revision(derive.FieldYear) != before[1]
	indicator := in.Revision(derive.FieldIndicator) != before[2]

	invalidated := make([]string, 0, 2)
	if states || year || indicator {
		invalidated = append(invalidated, "current")
	}
	if states || indicator {
		invalidated = append(invalidated, "trend")
	}
	return invalidated
}

// handleCurrentSlice returns the within-year rows for the selection
func (s *Server) handleCurrentSlice(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	rows, err := sess.Engine().CurrentSlice()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

// handleTrendSlice returns the across-years rows for the selection
func (s *Server) handleTrendSlice(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	rows, err := sess.Engine().TrendSlice()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

// handleComparisonChart returns the bar chart for the current slice
func (s *Server) handleComparisonChart(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	rows, err := sess.Engine().CurrentSlice()
	if err != nil {
		respondError(c, err)
		return
	}
	// CurrentSlice succeeding means the indicator and year are set.
	in := sess.Inputs()
	ind, _ := in.Indicator()
	year, _ := in.Year()
	c.JSON(http.StatusOK, render.BuildComparisonChart(rows, ind, year))
}

// handleTrendChart returns the line chart for the trend slice
func (s *Server) handleTrendChart(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	rows, err := sess.Engine().TrendSlice()
	if err != nil {
		respondError(c, err)
		return
	}
	ind, _ := sess.Inputs().Indicator()
	c.JSON(http.StatusOK, render.BuildTrendChart(rows, ind))
}

// handleTable returns the data table for the current slice
func (s *Server) handleTable(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	rows, err := sess.Engine().CurrentSlice()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.BuildTable(rows, sess.Inputs().Columns()))
}

// handleStatus returns the status card readouts
func (s *Server) handleStatus(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, render.BuildStatus(sess.Inputs()))
}

// handleChoices returns the state picker options under the session's
// search filter
func (s *Server) handleChoices(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	in := sess.Inputs()
	choices := in.FilteredStateChoices(s.store.States())
	c.JSON(http.StatusOK, gin.H{"choices": choices, "search": in.Search()})
}

// handleStats returns the engine's memoization counters
func (s *Server) handleStats(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"current": sess.Engine().CurrentStats(),
		"trend":   sess.Engine().TrendStats(),
	})
}

func tutorialPayload(g *tutorial.Guide) gin.H {
	step := g.Current()
	return gin.H{
		"index":    step.Index,
		"count":    tutorial.StepCount(),
		"title":    step.Title,
		"body":     step.Body,
		"html":     step.HTML(),
		"at_start": g.AtStart(),
		"at_end":   g.AtEnd(),
		"finished": g.Finished(),
	}
}

// handleTutorial returns the session's current tutorial step
func (s *Server) handleTutorial(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, tutorialPayload(sess.Guide()))
}

// handleTutorialNext advances the tutorial one step
func (s *Server) handleTutorialNext(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	sess.Guide().Next()
	s.persistSnapshot(c.Request.Context(), sess)
	c.JSON(http.StatusOK, tutorialPayload(sess.Guide()))
}

// handleTutorialPrev rewinds the tutorial one step
func (s *Server) handleTutorialPrev(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	sess.Guide().Prev()
	s.persistSnapshot(c.Request.Context(), sess)
	c.JSON(http.StatusOK, tutorialPayload(sess.Guide()))
}

// handleTutorialFinish marks the tutorial done and rewinds it
func (s *Server) handleTutorialFinish(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	sess.Guide().Finish()
	s.persistSnapshot(c.Request.Context(), sess)
	c.JSON(http.StatusOK, tutorialPayload(sess.Guide()))
}
