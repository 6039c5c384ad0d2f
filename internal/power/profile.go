package power

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// ProfileInfo describes one profile power-profiles-daemon can switch to.
type ProfileInfo struct {
	Driver  string
	Profile Profile
}

// Profiles is a live power-profiles-daemon proxy
// (original_source/src/services/power_profiles/core/mod.rs).
type Profiles struct {
	conn *dbus.Conn

	Active       reactive.Property[Profile]
	Degraded     reactive.Property[DegradationReason]
	Available    reactive.Property[[]ProfileInfo]
	token        reactive.Token
}

func newProfiles(conn *dbus.Conn) *Profiles {
	return &Profiles{
		conn:      conn,
		Active:    reactive.New(ProfileBalanced, eqProfile),
		Degraded:  reactive.New(DegradationNone, eqDegradation),
		Available: reactive.New[[]ProfileInfo](nil, nil),
	}
}

func eqProfile(a, b Profile) bool             { return a == b }
func eqDegradation(a, b DegradationReason) bool { return a == b }

func (p *Profiles) refresh() {
	if v, err := getProp(p.conn, ppdService, dbus.ObjectPath(ppdPath), ppdIface, "ActiveProfile"); err == nil {
		if s, ok := v.Value().(string); ok {
			p.Active.Set(profileFrom(s))
		}
	}
	if v, err := getProp(p.conn, ppdService, dbus.ObjectPath(ppdPath), ppdIface, "PerformanceDegraded"); err == nil {
		if s, ok := v.Value().(string); ok {
			p.Degraded.Set(degradationFrom(s))
		}
	}
	if v, err := getProp(p.conn, ppdService, dbus.ObjectPath(ppdPath), ppdIface, "Profiles"); err == nil {
		if dicts, ok := v.Value().([]map[string]dbus.Variant); ok {
			infos := make([]ProfileInfo, 0, len(dicts))
			for _, d := range dicts {
				driver, _ := d["Driver"].Value().(string)
				profileStr, _ := d["Profile"].Value().(string)
				infos = append(infos, ProfileInfo{Driver: driver, Profile: profileFrom(profileStr)})
			}
			p.Available.Set(infos)
		}
	}
}

func (p *Profiles) StartMonitoring(parent reactive.Token) { p.token = parent.Child() }
func (p *Profiles) CancelToken() reactive.Token            { return p.token }

// SetActive requests power-profiles-daemon switch to the given profile.
func (p *Profiles) SetActive(profile Profile) error {
	obj := p.conn.Object(ppdService, dbus.ObjectPath(ppdPath))
	return obj.Call(propsIface+".Set", 0, ppdIface, "ActiveProfile", dbus.MakeVariant(profile.String())).Err
}

var _ reactive.ModelMonitoring = (*Profiles)(nil)
