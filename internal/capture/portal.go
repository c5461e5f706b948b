package capture

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalMethod    = "org.freedesktop.portal.Screenshot.Screenshot"
	responseSignal  = "org.freedesktop.portal.Request.Response"
	responseSuccess = 0
	responseCancel  = 1
)

// PortalBackend asks the xdg desktop portal for an interactive screenshot over the session bus.
type PortalBackend struct {
	connect func() (*dbus.Conn, error)
	log     zerolog.Logger
}

// NewPortalBackend returns a PortalBackend on the user session bus.
func NewPortalBackend(log zerolog.Logger) *PortalBackend {
	return &PortalBackend{
		connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() },
		log:     log.With().Str("component", "capture").Str("backend", "portal").Logger(),
	}
}

func (b *PortalBackend) Grab(ctx context.Context) (*Image, error) {
	conn, err := b.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: dbus connect: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	opts := map[string]dbus.Variant{
		"interactive": dbus.MakeVariant(true),
	}
	var handle dbus.ObjectPath
	obj := conn.Object(portalDest, portalPath)
	if err := obj.CallWithContext(ctx, portalMethod, 0, "", opts).Store(&handle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("add match: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)
	b.log.Info().Str("event", "capture_armed").Str("handle", string(handle)).Send()

	for {
		select {
		case <-ctx.Done():
			return nil, ErrNoImage
		case sig, ok := <-sigc:
			if !ok {
				return nil, ErrNoImage
			}
			if sig.Path != handle || sig.Name != responseSignal {
				continue
			}
			return b.fromResponse(sig.Body)
		}
	}
}

// fromResponse decodes (response uint32, results a{sv}) and reads the file behind "uri".
func (b *PortalBackend) fromResponse(body []any) (*Image, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("malformed portal response")
	}
	code, _ := body[0].(uint32)
	switch code {
	case responseSuccess:
	case responseCancel:
		return nil, ErrCancelled
	default:
		return nil, fmt.Errorf("portal response code %d", code)
	}

	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("malformed portal results")
	}
	v, ok := results["uri"]
	if !ok {
		return nil, ErrNoImage
	}
	raw, _ := v.Value().(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("unexpected screenshot uri %q", raw)
	}

	data, err := os.ReadFile(u.Path)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	if err := os.Remove(u.Path); err != nil {
		b.log.Warn().Str("event", "capture_cleanup_failed").Str("path", u.Path).Err(err).Send()
	}
	b.log.Info().Str("event", "capture_detected").Str("path", u.Path).Int("bytes", len(data)).Send()
	return newImage(u.Path, data), nil
}
