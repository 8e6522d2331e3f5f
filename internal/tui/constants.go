package tui

type Mode int

const (
	ModeNormal Mode = iota
	ModePathInput
	ModeColorInput
)

// Action is what a key resolves to in normal mode. Actions are plain
// values so that dispatch always runs against the model that received
// the key.
type Action int

const (
	ActionNone Action = iota
	ActionPrev
	ActionNext
	ActionExport
	ActionExportAll
	ActionCopy
	ActionUndo
	ActionCycleStyle
	ActionToggleTheme
	ActionCycleGradient
	ActionToggleCustomBackground
	ActionEditColor
	ActionPaddingUp
	ActionPaddingDown
	ActionRadiusUp
	ActionRadiusDown
	ActionScaleUp
	ActionScaleDown
	ActionCyclePreset
	ActionAddImages
	ActionRemoveImage
	ActionHelp
	ActionQuit
)

const (
	paddingStep = 4
	radiusStep  = 2
	scaleStep   = 5
)
