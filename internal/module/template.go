package module

// Option is a name/value pair nested under a configuration element. Key is
// only emitted when set (the test-plan metadata option uses it).
type Option struct {
	Name  string `yaml:"name" json:"name"`
	Key   string `yaml:"key,omitempty" json:"key,omitempty"`
	Value string `yaml:"value" json:"value"`
}

// Preparer is a setup capability run before the test, identified by its class.
type Preparer struct {
	Class   string   `yaml:"class" json:"class"`
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`
}

// Template holds everything about a generated module that does not depend on
// the package under test.
type Template struct {
	// Prefix is joined with the package to form the module name.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	// Description is the free-text description on the configuration root.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Plan is the test plan the module is bound to through metadata.
	Plan string `yaml:"plan,omitempty" json:"plan,omitempty"`
	// Preparers run in order before the test.
	Preparers []Preparer `yaml:"preparers,omitempty" json:"preparers,omitempty"`
	// TestClass names the launch-test capability.
	TestClass string `yaml:"testClass,omitempty" json:"testClass,omitempty"`
}

const (
	DefaultPrefix      = "csuite"
	DefaultDescription = "Tests the compatibility of apps"
	DefaultPlan        = "app-launch"
	DefaultTestClass   = "com.android.compatibility.testtype.AppLaunchTest"

	// LaunchInstrumentationAPK is installed on the device to drive launches.
	LaunchInstrumentationAPK = "csuite-launch-instrumentation.apk"
)

const (
	classTestAppInstallSetup = "com.android.tradefed.targetprep.TestAppInstallSetup"
	classAppSetupPreparer    = "com.android.compatibility.targetprep.AppSetupPreparer"
	classRunCommandPreparer  = "com.android.tradefed.targetprep.RunCommandTargetPreparer"
)

// DefaultPreparers returns the standard preparer chain: install the launch
// instrumentation, run generic app setup, then wake, menu and home key events.
func DefaultPreparers() []Preparer {
	return []Preparer{
		{
			Class: classTestAppInstallSetup,
			Options: []Option{
				{Name: "test-file-name", Value: LaunchInstrumentationAPK},
			},
		},
		{
			Class: classAppSetupPreparer,
		},
		{
			Class: classRunCommandPreparer,
			Options: []Option{
				{Name: "run-command", Value: "input keyevent KEYCODE_WAKEUP"},
				{Name: "run-command", Value: "input keyevent KEYCODE_MENU"},
				{Name: "run-command", Value: "input keyevent KEYCODE_HOME"},
			},
		},
	}
}

// DefaultTemplate returns the app-launch module template.
func DefaultTemplate() Template {
	return Template{
		Prefix:      DefaultPrefix,
		Description: DefaultDescription,
		Plan:        DefaultPlan,
		Preparers:   DefaultPreparers(),
		TestClass:   DefaultTestClass,
	}
}

// WithDefaults fills every empty field of t from DefaultTemplate.
func (t Template) WithDefaults() Template {
	d := DefaultTemplate()
	if t.Prefix == "" {
		t.Prefix = d.Prefix
	}
	if t.Description == "" {
		t.Description = d.Description
	}
	if t.Plan == "" {
		t.Plan = d.Plan
	}
	if len(t.Preparers) == 0 {
		t.Preparers = d.Preparers
	}
	if t.TestClass == "" {
		t.TestClass = d.TestClass
	}
	return t
}

// ModuleName derives the stable module name for pkg.
func (t Template) ModuleName(pkg string) string {
	return t.Prefix + "_" + pkg
}
