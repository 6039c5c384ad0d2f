package controlapi

import (
	"github.com/pozitronik/steelclock-go/internal/audio"
	"github.com/pozitronik/steelclock-go/internal/bluetooth"
	"github.com/pozitronik/steelclock-go/internal/configstore"
	"github.com/pozitronik/steelclock-go/internal/idleinhibit"
	"github.com/pozitronik/steelclock-go/internal/mpris"
	"github.com/pozitronik/steelclock-go/internal/network"
	"github.com/pozitronik/steelclock-go/internal/notify"
	"github.com/pozitronik/steelclock-go/internal/power"
)

// Each constructor below adapts one service's live reactive state into a
// StatusSource, read fresh on every /v1/status request rather than cached,
// since Property.Get is a cheap, briefly mutex-guarded read.

func AudioSource(s *audio.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		out := s.DefaultOutput.Get()
		status := map[string]any{
			"output_count": len(s.OutputDevices.Get()),
			"input_count":  len(s.InputDevices.Get()),
			"stream_count": len(s.Streams.Get()),
		}
		if out != nil {
			status["default_output"] = map[string]any{
				"name":   out.Name.Get(),
				"volume": out.Volume.Get(),
				"muted":  out.Muted.Get(),
			}
		}
		return status
	}
}

func MediaSource(s *mpris.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		players := s.Players.Get()
		status := map[string]any{"player_count": len(players)}
		if active := s.ActivePlayer.Get(); active != nil {
			status["active_player"] = map[string]any{
				"identity": active.Identity.Get(),
				"state":    active.PlaybackState.Get(),
			}
		}
		return status
	}
}

func NetworkSource(s *network.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		status := map[string]any{
			"connectivity":       s.Connectivity.Get(),
			"access_point_count": len(s.AccessPoints.Get()),
		}
		if ac := s.ActiveConnection.Get(); ac != nil {
			status["active_connection"] = ac.ID.Get()
		}
		return status
	}
}

func BluetoothSource(s *bluetooth.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		return map[string]any{
			"adapter_count": len(s.Adapters.Get()),
			"device_count":  len(s.Devices.Get()),
		}
	}
}

func NotifySource(s *notify.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		return map[string]any{"history_count": len(s.History.Get())}
	}
}

func PowerSource(s *power.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		status := map[string]any{}
		if s.Profiles != nil {
			status["profile"] = s.Profiles.Active.Get().String()
			status["degraded"] = s.Profiles.Degraded.Get().String()
		}
		if s.Battery != nil {
			status["battery_percentage"] = s.Battery.Percentage.Get()
			status["battery_state"] = s.Battery.State.Get().String()
		}
		if s.Status != nil {
			status["overall"] = s.Status.Get().String()
		}
		return status
	}
}

func IdleInhibitSource(s *idleinhibit.Service) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		return map[string]any{"active_count": s.Count.Get()}
	}
}

func ConfigSource(s *configstore.Store) StatusSource {
	if s == nil {
		return nil
	}
	return func() any {
		cfg := s.Config.Get()
		return map[string]any{
			"log_level":            cfg.LogLevel,
			"idle_inhibit_enabled": cfg.IdleInhibit.Enabled,
		}
	}
}
