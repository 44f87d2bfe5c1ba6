package vis

import (
	"fmt"

	"serialvis/protocol"
)

// Sender emits one frame. *protocol.Emitter and *device.Device implement it.
type Sender interface {
	Emit(opcode string, d protocol.Descriptor, values ...protocol.Value) error
}

var _ Sender = (*protocol.Emitter)(nil)

// Client sends serial-vis commands by name, checking them against a Registry
type Client struct {
	sender   Sender
	registry *Registry
}

// NewClient creates a client over the built-in command set
func NewClient(sender Sender) *Client {
	return NewClientWithRegistry(sender, DefaultRegistry())
}

// NewClientWithRegistry creates a client that resolves commands in registry
func NewClientWithRegistry(sender Sender, registry *Registry) *Client {
	return &Client{sender: sender, registry: registry}
}

// Registry returns the registry the client resolves commands in
func (c *Client) Registry() *Registry {
	return c.registry
}

// Command sends a registered command with the given values
func (c *Client) Command(name string, values ...protocol.Value) error {
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return c.sender.Emit(cmd.Name, cmd.Descriptor, values...)
}

// Draw asks the host to render the current buffer
func (c *Client) Draw() error {
	return c.Command("draw")
}

// Trigger pauses the host on the current frame
func (c *Client) Trigger() error {
	return c.Command("trigger")
}

// Logs logs a labelled string
func (c *Client) Logs(label string, data string) error {
	return c.Command("logs", protocol.String(label), protocol.String(data))
}

// Logf logs a labelled number
func (c *Client) Logf(label string, data float64) error {
	return c.Command("logf", protocol.String(label), protocol.Float64(data))
}

func (c *Client) LogStart() error {
	return c.Command("logstart")
}

func (c *Client) LogEnd() error {
	return c.Command("logend")
}

// Echo prints text on the host console
func (c *Client) Echo(text string) error {
	return c.Command("echo", protocol.String(text))
}

// DefineColor names an RGB color for later draw commands
func (c *Client) DefineColor(name string, r, g, b int16) error {
	return c.Command("definecolor",
		protocol.String(name), protocol.Int16(r), protocol.Int16(g), protocol.Int16(b))
}

func (c *Client) SetScale(scale float32) error {
	return c.Command("setscale", protocol.Float32(scale))
}

func (c *Client) SetOffset(x, y int16) error {
	return c.Command("setoffset", protocol.Int16(x), protocol.Int16(y))
}

func (c *Client) DrawLine(x1, y1, x2, y2 float32, color string) error {
	return c.Command("drawline",
		protocol.Float32(x1), protocol.Float32(y1),
		protocol.Float32(x2), protocol.Float32(y2),
		protocol.String(color))
}

// DrawLineP draws a line in pixel coordinates, ignoring scale and offset
func (c *Client) DrawLineP(x1, y1, x2, y2 int16, color string) error {
	return c.Command("drawlinep",
		protocol.Int16(x1), protocol.Int16(y1),
		protocol.Int16(x2), protocol.Int16(y2),
		protocol.String(color))
}

func (c *Client) DrawCircle(x, y, r float32, color string) error {
	return c.Command("drawcircle",
		protocol.Float32(x), protocol.Float32(y), protocol.Float32(r),
		protocol.String(color))
}

// DrawRay draws a segment from (x, y) at angle (radians) with the given length
func (c *Client) DrawRay(x, y, angle, length float32, color string) error {
	return c.Command("drawray",
		protocol.Float32(x), protocol.Float32(y),
		protocol.Float32(angle), protocol.Float32(length),
		protocol.String(color))
}

func (c *Client) Text(label string, x, y float32, size int16, color string) error {
	return c.Command("text",
		protocol.String(label), protocol.Float32(x), protocol.Float32(y),
		protocol.Int16(size), protocol.String(color))
}

// TextP draws text in pixel coordinates
func (c *Client) TextP(label string, x, y int16, size int16, color string) error {
	return c.Command("textp",
		protocol.String(label), protocol.Int16(x), protocol.Int16(y),
		protocol.Int16(size), protocol.String(color))
}
