package orchestrator

// Phase is one step of a launch run. Phases always execute in the order of
// Phases.
type Phase string

const (
	PhaseInit                     Phase = "Init"
	PhaseEnsureClean              Phase = "EnsureClean"
	PhaseGenerateModule           Phase = "GenerateModule"
	PhaseStageArtifacts           Phase = "StageArtifacts"
	PhaseClearLogBuffer           Phase = "ClearLogBuffer"
	PhaseInvokeHarness            Phase = "InvokeHarness"
	PhaseCollectLogs              Phase = "CollectLogs"
	PhaseClassifyOutcome          Phase = "ClassifyOutcome"
	PhaseVerifyCleanPostcondition Phase = "VerifyCleanPostcondition"
	PhaseTerminal                 Phase = "Terminal"
)

// Phases lists every phase in execution order.
var Phases = []Phase{
	PhaseInit,
	PhaseEnsureClean,
	PhaseGenerateModule,
	PhaseStageArtifacts,
	PhaseClearLogBuffer,
	PhaseInvokeHarness,
	PhaseCollectLogs,
	PhaseClassifyOutcome,
	PhaseVerifyCleanPostcondition,
	PhaseTerminal,
}

// PhaseStatus is the result of a single phase.
type PhaseStatus string

const (
	PhaseStatusOK      PhaseStatus = "ok"
	PhaseStatusFailed  PhaseStatus = "failed"
	PhaseStatusSkipped PhaseStatus = "skipped"
)
