package network

import (
	"github.com/godbus/dbus/v5"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// ActiveConnection is a live or snapshot NetworkManager active connection
// (original_source/src/services/network/core/connection/{types,monitoring}.rs).
type ActiveConnection struct {
	path dbus.ObjectPath
	conn *dbus.Conn

	ID    reactive.Property[string]
	State reactive.Property[ActiveConnectionState]
	Type  reactive.Property[string]

	token reactive.Token
}

func newActiveConnection(conn *dbus.Conn, path dbus.ObjectPath) *ActiveConnection {
	c := &ActiveConnection{
		path:  path,
		conn:  conn,
		ID:    reactive.New("", eqStrNet),
		State: reactive.New(ConnUnknown, func(a, b ActiveConnectionState) bool { return a == b }),
		Type:  reactive.New("", eqStrNet),
	}
	c.refresh()
	return c
}

// Key satisfies reactive.Entity[ConnectionPath].
func (c *ActiveConnection) Key() ConnectionPath { return c.path }

func (c *ActiveConnection) refresh() {
	if v, err := getProp(c.conn, nmService, c.path, activeConnIfc, "Id"); err == nil {
		if s, ok := v.Value().(string); ok {
			c.ID.Set(s)
		}
	}
	if v, err := getProp(c.conn, nmService, c.path, activeConnIfc, "State"); err == nil {
		if n, ok := v.Value().(uint32); ok {
			c.State.Set(ActiveConnectionState(n))
		}
	}
	if v, err := getProp(c.conn, nmService, c.path, activeConnIfc, "Type"); err == nil {
		if s, ok := v.Value().(string); ok {
			c.Type.Set(s)
		}
	}
}

func (c *ActiveConnection) StartMonitoring(parent reactive.Token) { c.token = parent.Child() }
func (c *ActiveConnection) CancelToken() reactive.Token           { return c.token }

var (
	_ reactive.Entity[ConnectionPath] = (*ActiveConnection)(nil)
	_ reactive.ModelMonitoring        = (*ActiveConnection)(nil)
)
