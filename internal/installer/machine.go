package installer

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/looplab/fsm"
	"k8s.io/utils/clock"

	"github.com/ibm/data-gate-cli/internal/logging"
)

// Installation stages.
const (
	StateIdle              = "idle"
	StateLocatingVersion   = "locating-version"
	StatePreInstalling     = "pre-installing"
	StateWaitingPreInstall = "waiting-pre-install"
	StateInstalling        = "installing"
	StateWaitingInstall    = "waiting-install"
	StateSucceeded         = "succeeded"
	StateFailed            = "failed"
)

const (
	eventLocate         = "locate"
	eventPreinstall     = "preinstall"
	eventWaitPreinstall = "wait-preinstall"
	eventInstall        = "install"
	eventWaitInstall    = "wait-install"
	eventResume         = "resume"
	eventSucceed        = "succeed"
	eventFail           = "fail"
)

func machineEvents() fsm.Events {
	return fsm.Events{
		{Name: eventLocate, Src: []string{StateIdle}, Dst: StateLocatingVersion},
		{Name: eventPreinstall, Src: []string{StateLocatingVersion}, Dst: StatePreInstalling},
		{Name: eventWaitPreinstall, Src: []string{StatePreInstalling}, Dst: StateWaitingPreInstall},
		{Name: eventInstall, Src: []string{StateWaitingPreInstall}, Dst: StateInstalling},
		{Name: eventWaitInstall, Src: []string{StateInstalling}, Dst: StateWaitingInstall},
		{Name: eventResume, Src: []string{StateIdle}, Dst: StateWaitingInstall},
		{Name: eventSucceed, Src: []string{StateWaitingInstall}, Dst: StateSucceeded},
		{Name: eventFail, Src: []string{
			StateLocatingVersion, StatePreInstalling, StateWaitingPreInstall,
			StateInstalling, StateWaitingInstall, StateSucceeded,
		}, Dst: StateFailed},
	}
}

// Session identifies one installation run. It is not persisted; the
// workspace ID is what a later Resume needs.
type Session struct {
	ClusterID      string
	VersionLocator string
	WorkspaceID    string
	StartTime      time.Time
}

func (s Session) keysAndValues() []any {
	kv := []any{"cluster", s.ClusterID}
	if s.VersionLocator != "" {
		kv = append(kv, "versionLocator", s.VersionLocator)
	}
	if s.WorkspaceID != "" {
		kv = append(kv, "workspace", s.WorkspaceID)
	}
	return append(kv, "started", s.StartTime.Format(time.RFC3339))
}

// run is the state of one Install or Resume call.
type run struct {
	machine    *fsm.FSM
	session    Session
	clock      clock.Clock
	metrics    *Metrics
	log        logr.Logger
	stageStart time.Time
}

func newRun(ctx context.Context, clk clock.Clock, m *Metrics, clusterID string) *run {
	r := &run{
		clock:   clk,
		metrics: m,
		log:     logging.FromContext(ctx).WithName("installer"),
	}
	r.session = Session{ClusterID: clusterID, StartTime: clk.Now()}
	r.stageStart = r.session.StartTime
	r.machine = fsm.NewFSM(StateIdle, machineEvents(), fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			r.enter(e.Src, e.Dst)
		},
	})
	return r
}

func (r *run) enter(from, to string) {
	now := r.clock.Now()
	if from != StateIdle {
		r.metrics.observeStage(from, now.Sub(r.stageStart))
	}
	r.stageStart = now
	r.log.V(1).Info("installation stage", append([]any{"from", from, "to", to}, r.session.keysAndValues()...)...)
}

// advance fires event. A rejected transition is a programming error and is
// returned as such.
func (r *run) advance(ctx context.Context, event string) error {
	return r.machine.Event(ctx, event)
}

// fail moves to the failed state and wraps err with the stage it happened in.
func (r *run) fail(ctx context.Context, err error) error {
	stage := r.machine.Current()
	_ = r.machine.Event(ctx, eventFail)
	r.metrics.observeRun(resultFailed)
	return &StageError{Stage: stage, Err: err}
}

func (r *run) succeed() {
	// the final stage has no successor; record it explicitly
	r.metrics.observeStage(r.machine.Current(), r.clock.Since(r.stageStart))
	r.metrics.observeRun(resultSucceeded)
	r.log.Info("installation finished", r.session.keysAndValues()...)
}
