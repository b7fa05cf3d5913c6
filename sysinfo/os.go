package sysinfo

// OS identifies the running kernel.
type OS struct {
	Name    string `yaml:"os_name"`
	Release string `yaml:"os_version"`
	Arch    string `yaml:"arch"`
}

func (o OS) String() string {
	return o.Name + " " + o.Release + " " + o.Arch
}
