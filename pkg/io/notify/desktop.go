package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

type notifyFunc func(title, message string) error

// Desktop shows notifications through the OS notification center.
type Desktop struct {
	id     device.EndpointID
	app    string
	notify notifyFunc
}

func NewDesktop(app string) *Desktop {
	return &Desktop{
		id:     device.EndpointID(uuid.New()),
		app:    app,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (d *Desktop) ID() device.EndpointID {
	return d.id
}

func (d *Desktop) Name() string {
	return "desktop"
}

// Deliver implements device.Endpoint.
func (d *Desktop) Deliver(n device.Notification) error {
	title := n.Title
	if title == "" {
		title = d.app
	} else {
		title = d.app + ": " + title
	}
	return d.notify(title, n.Body)
}

func (d *Desktop) Close() error {
	return nil
}
