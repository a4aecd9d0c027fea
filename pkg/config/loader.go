package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Validator is implemented by config structs that check invariants env tags cannot express.
type Validator interface {
	Validate() error
}

type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
	errs   map[string]error
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
		errs:   make(map[string]error),
	}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v. The first call also loads an
// optional .env file. Each config type is parsed once per process; later calls
// for the same type copy the cached value, or return the cached error.
//
//	type Config struct {
//		MastodonURL string `env:"MASTODON_URL" envDefault:"https://social.ffmuc.net"`
//		APIToken    string `env:"API_TOKEN"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := getTypeName[T]()

	globalCache.mu.Lock()
	once, exists := globalCache.onces[typeName]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	once.Do(func() {
		var parsed T
		err := parse(&parsed, env.Options{})

		globalCache.mu.Lock()
		defer globalCache.mu.Unlock()
		if err != nil {
			globalCache.errs[typeName] = err
			return
		}
		globalCache.values[typeName] = parsed
	})

	globalCache.mu.RLock()
	defer globalCache.mu.RUnlock()

	if err, ok := globalCache.errs[typeName]; ok {
		return err
	}
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		return nil
	}
	return ErrConfigNotLoaded
}

// LoadFrom parses the given variables instead of the process environment.
// Nothing is cached; tests use it to exercise env tags and defaults.
func LoadFrom[T any](v *T, environ map[string]string) error {
	if v == nil {
		return ErrNilPointer
	}
	if environ == nil {
		environ = map[string]string{}
	}
	return parse(v, env.Options{Environment: environ})
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

func parse[T any](v *T, opts env.Options) error {
	if err := env.ParseWithOptions(v, opts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	if validator, ok := any(v).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}

func getTypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
