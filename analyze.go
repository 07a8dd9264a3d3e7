package koord

import (
	"errors"

	"go.uber.org/zap"
)

type Option func(*analysis)

// WithLogger sets the logger that receives phase progress. The default
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(a *analysis) {
		a.logger = logger
	}
}

func WithConfig(conf Config) Option {
	return func(a *analysis) {
		a.conf = conf
	}
}

type analysis struct {
	conf   Config
	logger *zap.Logger
}

// Analyze builds the symbol table of prog and checks it in four phases:
// declarations, reference resolution, types and write access. Each phase
// runs only if the ones before it reported nothing. The returned table
// carries the diagnostics of every phase that ran. An error is returned
// only if prog is malformed in a way no diagnostic describes.
func Analyze(prog *Program, opts ...Option) (*Table, error) {
	a := &analysis{
		conf:   DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if prog == nil {
		return nil, &InternalError{Msg: "no program to analyze"}
	}
	t := NewTable(a.conf)
	err := a.run(t, prog)
	var phaseErr *PhaseError
	if errors.As(err, &phaseErr) {
		if phaseErr.Phase != AccessPhase {
			a.logger.Info("later phases skipped",
				zap.Stringer("blocked_by", phaseErr.Phase),
				zap.Int("diagnostics", phaseErr.Count))
		}
		err = nil
	}
	if err != nil {
		a.logger.Error("analysis aborted", zap.Error(err))
		return nil, err
	}
	a.logger.Debug("analysis finished",
		zap.String("file", prog.Filename),
		zap.Int("symbols", t.Len()),
		zap.Bool("valid", t.IsValid()))
	return t, nil
}

func (a *analysis) run(t *Table, prog *Program) error {
	a.started(BuildPhase)
	built, err := build(t, prog, a.logger)
	if err != nil {
		return err
	}
	a.started(ResolvePhase)
	resolved, err := resolve(built, prog, a.logger)
	if err != nil {
		return err
	}
	a.started(TypePhase)
	checked, err := checkTypes(resolved, prog, a.logger)
	if err != nil {
		return err
	}
	a.started(AccessPhase)
	return checkAccess(checked, prog, a.logger)
}

func (a *analysis) started(p Phase) {
	a.logger.Debug("phase started", zap.Stringer("phase", p))
}
