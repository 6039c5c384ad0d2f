package bluetooth

import (
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

const (
	agentPath       = dbus.ObjectPath("/steelshell/bluetooth/agent")
	agentIface      = "org.bluez.Agent1"
	agentManagerIfc = "org.bluez.AgentManager1"
	capability      = "KeyboardDisplay"
)

// PairingRequestKind distinguishes the shapes of pairing prompt BlueZ can
// raise against the agent (original_source's AgentEvent enum).
type PairingRequestKind int

const (
	RequestPinCode PairingRequestKind = iota
	RequestPasskey
	RequestConfirmationKind
	RequestAuthorizationKind
	RequestServiceAuthorization
	DisplayPinCodeKind
	DisplayPasskeyKind
)

// PairingRequest is published on Agent.Pending whenever BlueZ needs the user
// to answer a pairing prompt. Exactly one of the passkey/pincode fields is
// meaningful, selected by Kind.
type PairingRequest struct {
	Kind       PairingRequestKind
	DevicePath dbus.ObjectPath
	Passkey    uint32
	PinCode    string
	ServiceID  string
	Entered    uint16
}

type answer struct {
	pinCode string
	passkey uint32
	accept  bool
}

// Agent implements org.bluez.Agent1, bridging blocking D-Bus pairing calls
// into a reactive property plus an answer channel, so a CLI or UI can
// observe and answer prompts asynchronously
// (original_source/src/services/bluetooth/agent/event_processor.rs).
type Agent struct {
	conn *dbus.Conn

	Pending reactive.Property[*PairingRequest]

	mu     sync.Mutex
	answer chan answer
}

func newAgent(conn *dbus.Conn) (*Agent, error) {
	a := &Agent{
		conn:    conn,
		Pending: reactive.New[*PairingRequest](nil, nil),
	}

	if err := conn.Export(a, agentPath, agentIface); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "bluetooth-agent", Err: err}
	}

	obj := conn.Object(bluezService, dbus.ObjectPath("/org/bluez"))
	call := obj.Call(agentManagerIfc+".RegisterAgent", 0, agentPath, capability)
	if call.Err != nil {
		return nil, &reactive.InitializationFailedError{Service: "bluetooth-agent", Err: call.Err}
	}
	if call := obj.Call(agentManagerIfc+".RequestDefaultAgent", 0, agentPath); call.Err != nil {
		return nil, &reactive.InitializationFailedError{Service: "bluetooth-agent", Err: call.Err}
	}

	return a, nil
}

func (a *Agent) ask(req *PairingRequest) answer {
	a.mu.Lock()
	a.answer = make(chan answer, 1)
	ch := a.answer
	a.mu.Unlock()

	a.Pending.Set(req)
	ans := <-ch
	a.Pending.Set(nil)
	return ans
}

// AnswerPinCode resolves a pending RequestPinCode prompt.
func (a *Agent) AnswerPinCode(code string) error { return a.send(answer{pinCode: code, accept: true}) }

// AnswerPasskey resolves a pending RequestPasskey prompt.
func (a *Agent) AnswerPasskey(passkey uint32) error {
	return a.send(answer{passkey: passkey, accept: true})
}

// AnswerYesNo resolves a pending confirmation/authorization prompt.
func (a *Agent) AnswerYesNo(accept bool) error { return a.send(answer{accept: accept}) }

func (a *Agent) send(ans answer) error {
	a.mu.Lock()
	ch := a.answer
	a.mu.Unlock()
	if ch == nil {
		return errors.New("bluetooth: no pairing request is pending")
	}
	ch <- ans
	return nil
}

// --- org.bluez.Agent1 method table, invoked by BlueZ over D-Bus ---

func (a *Agent) Release() *dbus.Error { return nil }

func (a *Agent) RequestPinCode(device dbus.ObjectPath) (string, *dbus.Error) {
	ans := a.ask(&PairingRequest{Kind: RequestPinCode, DevicePath: device})
	if !ans.accept {
		return "", dbus.NewError("org.bluez.Error.Rejected", nil)
	}
	return ans.pinCode, nil
}

func (a *Agent) DisplayPinCode(device dbus.ObjectPath, pincode string) *dbus.Error {
	a.Pending.Set(&PairingRequest{Kind: DisplayPinCodeKind, DevicePath: device, PinCode: pincode})
	return nil
}

func (a *Agent) RequestPasskey(device dbus.ObjectPath) (uint32, *dbus.Error) {
	ans := a.ask(&PairingRequest{Kind: RequestPasskey, DevicePath: device})
	if !ans.accept {
		return 0, dbus.NewError("org.bluez.Error.Rejected", nil)
	}
	return ans.passkey, nil
}

func (a *Agent) DisplayPasskey(device dbus.ObjectPath, passkey uint32, entered uint16) *dbus.Error {
	a.Pending.Set(&PairingRequest{Kind: DisplayPasskeyKind, DevicePath: device, Passkey: passkey, Entered: entered})
	return nil
}

func (a *Agent) RequestConfirmation(device dbus.ObjectPath, passkey uint32) *dbus.Error {
	ans := a.ask(&PairingRequest{Kind: RequestConfirmationKind, DevicePath: device, Passkey: passkey})
	if !ans.accept {
		return dbus.NewError("org.bluez.Error.Rejected", nil)
	}
	return nil
}

func (a *Agent) RequestAuthorization(device dbus.ObjectPath) *dbus.Error {
	ans := a.ask(&PairingRequest{Kind: RequestAuthorizationKind, DevicePath: device})
	if !ans.accept {
		return dbus.NewError("org.bluez.Error.Rejected", nil)
	}
	return nil
}

func (a *Agent) AuthorizeService(device dbus.ObjectPath, uuid string) *dbus.Error {
	ans := a.ask(&PairingRequest{Kind: RequestServiceAuthorization, DevicePath: device, ServiceID: uuid})
	if !ans.accept {
		return dbus.NewError("org.bluez.Error.Rejected", nil)
	}
	return nil
}

func (a *Agent) Cancel() *dbus.Error {
	a.mu.Lock()
	ch := a.answer
	a.answer = nil
	a.mu.Unlock()
	if ch != nil {
		close(ch)
	}
	a.Pending.Set(nil)
	return nil
}
