package config

// Store selects where the catalog document lives. FilePath is only read by
// the FILE driver; the POSTGRES driver uses the Postgres section.
type Store struct {
	Driver   StoreDriver `env:"STORE_DRIVER" envDefault:"FILE"`
	FilePath string      `env:"STORE_FILE_PATH" envDefault:"data/products.json"`
}

type StoreDriver uint8

const (
	StoreDriverFile StoreDriver = iota
	StoreDriverPostgres
)

var storeDriverNames = names[StoreDriver]{"FILE", "POSTGRES"}

func (d StoreDriver) String() string {
	return storeDriverNames.format(d)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StoreDriver) UnmarshalText(text []byte) error {
	v, err := storeDriverNames.parse("store driver", text)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d StoreDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
