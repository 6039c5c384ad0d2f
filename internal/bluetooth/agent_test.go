package bluetooth

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

func TestAgentRequestPinCodeRoundTrip(t *testing.T) {
	a := &Agent{Pending: reactive.New[*PairingRequest](nil, nil)}

	go func() {
		require.Eventually(t, func() bool {
			return a.Pending.Get() != nil
		}, time.Second, time.Millisecond)
		require.NoError(t, a.AnswerPinCode("1234"))
	}()

	code, dbusErr := a.RequestPinCode(dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB"))
	require.Nil(t, dbusErr)
	require.Equal(t, "1234", code)
	require.Nil(t, a.Pending.Get())
}

func TestAgentRequestConfirmationRejected(t *testing.T) {
	a := &Agent{Pending: reactive.New[*PairingRequest](nil, nil)}

	go func() {
		require.Eventually(t, func() bool {
			return a.Pending.Get() != nil
		}, time.Second, time.Millisecond)
		require.NoError(t, a.AnswerYesNo(false))
	}()

	dbusErr := a.RequestConfirmation(dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB"), 123456)
	require.NotNil(t, dbusErr)
}

func TestAgentCancelUnblocksPendingRequest(t *testing.T) {
	a := &Agent{Pending: reactive.New[*PairingRequest](nil, nil)}

	go func() {
		require.Eventually(t, func() bool {
			return a.Pending.Get() != nil
		}, time.Second, time.Millisecond)
		a.Cancel()
	}()

	_, dbusErr := a.RequestPasskey(dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB"))
	require.NotNil(t, dbusErr)
}
