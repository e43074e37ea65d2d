package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Monitor is an active display as the server sees it, straight from the
// RandR protocol rather than parsed CLI text. Used to cross-check the
// xrandr report in status output.
type Monitor struct {
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primaryOutput randr.Output
	if primary, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primaryOutput = primary.Output
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		primary := false
		if len(crtcInfo.Outputs) > 0 {
			if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
				name = string(outputInfo.Name)
			}
			primary = crtcInfo.Outputs[0] == primaryOutput
		}

		monitors = append(monitors, Monitor{
			Name:    name,
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
			Primary: primary,
		})
	}

	return monitors, nil
}
