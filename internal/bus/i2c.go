package bus

import (
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// I2C is a Bus backed by a host I²C controller.
type I2C struct {
	bus i2c.BusCloser
}

// OpenI2C initialises the host drivers and opens the named I²C bus, for
// example "/dev/i2c-1" or "1". An empty name opens the first bus found.
func OpenI2C(name string) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise host drivers: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	return &I2C{bus: b}, nil
}

// Write sends p to addr in a single write-only transaction.
func (d *I2C) Write(addr uint16, p []byte) error {
	return d.bus.Tx(addr, p, nil)
}

// Close releases the bus.
func (d *I2C) Close() error {
	return d.bus.Close()
}

func (d *I2C) String() string {
	return d.bus.String()
}
