package scanorch

import "strings"

// OS describes the operating system of an agent's host, as reported by the
// syscollector osinfo collector.
type OS struct {
	HostName       string `json:"hostName,omitempty"`
	Architecture   string `json:"architecture,omitempty"`
	Name           string `json:"name"`
	CodeName       string `json:"codeName,omitempty"`
	MajorVersion   string `json:"majorVersion,omitempty"`
	MinorVersion   string `json:"minorVersion,omitempty"`
	Patch          string `json:"patch,omitempty"`
	Build          string `json:"build,omitempty"`
	Platform       string `json:"platform"`
	Version        string `json:"version,omitempty"`
	Release        string `json:"release,omitempty"`
	DisplayVersion string `json:"displayVersion,omitempty"`
	SysName        string `json:"sysName,omitempty"`
	KernelVersion  string `json:"kernelVersion,omitempty"`
	KernelRelease  string `json:"kernelRelease,omitempty"`
}

// DottedVersion joins the non-empty version segments in order with ".",
// matching the host.os.version envelope field (§4.5).
func (o OS) DottedVersion() string {
	segs := make([]string, 0, 4)
	for _, s := range []string{o.MajorVersion, o.MinorVersion, o.Patch, o.Build} {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, ".")
}

// IsDarwin reports whether this OS is macOS.
func (o OS) IsDarwin() bool { return o.Platform == "darwin" }

// FullName is the host.os.full envelope field: "<name> <version>", except on
// darwin where it's "<name> <codeName>".
func (o OS) FullName() string {
	if o.IsDarwin() {
		return strings.TrimSpace(o.Name + " " + o.CodeName)
	}
	return strings.TrimSpace(o.Name + " " + o.Version)
}

// OSType is the host.os.type envelope field: "macos" on darwin, else the
// lower-cased platform tag.
func (o OS) OSType() string {
	if o.IsDarwin() {
		return "macos"
	}
	return strings.ToLower(o.Platform)
}

// CPEName renders the CPE name for this OS given a per-platform template
// string (placeholders $(MAJOR_VERSION), $(VERSION), $(DISPLAY_VERSION),
// $(PLATFORM)), prefixed with "cpe:/o:". $(VERSION) is the combined Version
// field, or DottedVersion() when Version is empty. An empty template yields
// an empty string: callers should treat that as "no CPE available for this
// platform".
func (o OS) CPEName(template string) string {
	if template == "" {
		return ""
	}
	version := o.Version
	if version == "" {
		version = o.DottedVersion()
	}
	r := strings.NewReplacer(
		"$(MAJOR_VERSION)", o.MajorVersion,
		"$(VERSION)", version,
		"$(DISPLAY_VERSION)", strings.ToLower(o.DisplayVersion),
		"$(PLATFORM)", o.Platform,
	)
	return "cpe:/o:" + r.Replace(template)
}
