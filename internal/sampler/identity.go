package sampler

import (
	"bufio"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

const (
	devicetreeModelPath = "/sys/firmware/devicetree/base/model"
	cpuinfoPath         = "/proc/cpuinfo"
)

// Identity describes the device being monitored. It is probed once at
// startup for the banner and the log preamble.
type Identity struct {
	Model    string // board model from the device tree
	Revision string // board revision from /proc/cpuinfo
	Serial   string // BCM chip serial from /proc/cpuinfo
	Firmware string // multi-line vcgencmd version output
	Hostname string
	OS       string
	Kernel   string
	Arch     string
	Cores    int // logical cores, 0 when unknown
}

// FirmwareLine returns the firmware version joined to a single line for the
// log preamble.
func (id Identity) FirmwareLine() string {
	lines := strings.Split(strings.TrimRight(id.Firmware, "\n"), "\n")
	return strings.Join(lines, " ")
}

// identityProber reads the identity sources. Paths are fields so tests can
// redirect them at fixture files.
type identityProber struct {
	modelPath   string
	cpuinfoPath string
	firmware    firmwareQuerier
}

// ProbeIdentity collects the device identity from the device tree, cpuinfo,
// the firmware tool and the host. Unreadable sources are fatal, the same as
// a failed sensor query; a cpuinfo without Revision or Serial lines is not.
func ProbeIdentity() (Identity, error) {
	p := &identityProber{
		modelPath:   devicetreeModelPath,
		cpuinfoPath: cpuinfoPath,
		firmware:    newVCGencmd(),
	}
	return p.probe()
}

func (p *identityProber) probe() (Identity, error) {
	id := Identity{Arch: runtime.GOARCH}

	b, err := os.ReadFile(p.modelPath)
	if err != nil {
		return Identity{}, queryErr(MetricModel, err)
	}
	// The device tree value carries a trailing NUL.
	id.Model = strings.TrimSpace(strings.TrimRight(string(b), "\x00"))

	if id.Revision, err = p.cpuinfoField("Revision"); err != nil {
		return Identity{}, queryErr(MetricRevision, err)
	}
	if id.Serial, err = p.cpuinfoField("Serial"); err != nil {
		return Identity{}, queryErr(MetricSerial, err)
	}
	if id.Firmware, err = p.firmware.Version(); err != nil {
		return Identity{}, err
	}

	info, err := host.Info()
	if err != nil {
		return Identity{}, queryErr(MetricHost, err)
	}
	id.Hostname = info.Hostname
	id.OS = info.OS
	id.Kernel = info.KernelVersion

	if n, err := cpu.Counts(true); err == nil {
		id.Cores = n
	}
	return id, nil
}

// cpuinfoField returns the value of the first cpuinfo line starting with
// prefix, or "" when no such line exists.
func (p *identityProber) cpuinfoField(prefix string) (string, error) {
	f, err := os.Open(p.cpuinfoPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			return strings.TrimSpace(value), nil
		}
	}
	return "", sc.Err()
}
