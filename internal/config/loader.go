package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// option binds one setting to its YAML key, flag and environment variable.
// The flag name is the key with dashes; the variable is the key upper-cased.
type option struct {
	key    string
	short  string
	usage  string
	target any // *string, *int or *time.Duration
}

func (o option) flagName() string { return strings.ReplaceAll(o.key, "_", "-") }

func (o option) envName() string { return strings.ToUpper(o.key) }

func (o option) register(fs *pflag.FlagSet) {
	switch t := o.target.(type) {
	case *string:
		fs.StringP(o.flagName(), o.short, *t, o.usage)
	case *int:
		fs.IntP(o.flagName(), o.short, *t, o.usage)
	case *time.Duration:
		fs.DurationP(o.flagName(), o.short, *t, o.usage)
	}
}

func (o option) set(v string) error {
	switch t := o.target.(type) {
	case *string:
		*t = v
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", o.key, err)
		}
		*t = n
	case *time.Duration:
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", o.key, err)
		}
		*t = d
	}
	return nil
}

// parseDuration accepts Go duration strings and, for compatibility with
// older deployments, a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// load applies every layer on top of the defaults already held by the
// option targets.
func load(name string, args []string, opts []option) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to a YAML config file (env CONFIG)")
	envFile := fs.String("env-file", "", "dotenv file read before the environment (default .env if present)")
	for _, o := range opts {
		o.register(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		if err := applyYAML(*configPath, opts); err != nil {
			return err
		}
	}

	dotenv, err := readDotenv(*envFile)
	if err != nil {
		return err
	}
	for _, o := range opts {
		v, ok := os.LookupEnv(o.envName())
		if !ok {
			v, ok = dotenv[o.envName()]
		}
		if !ok || v == "" {
			continue
		}
		if err := o.set(v); err != nil {
			return fmt.Errorf("env %s: %w", o.envName(), err)
		}
	}

	byFlag := make(map[string]option, len(opts))
	for _, o := range opts {
		byFlag[o.flagName()] = o
	}
	var flagErr error
	fs.Visit(func(f *pflag.Flag) {
		o, ok := byFlag[f.Name]
		if !ok || flagErr != nil {
			return
		}
		flagErr = o.set(f.Value.String())
	})
	return flagErr
}

func applyYAML(path string, opts []option) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	byKey := make(map[string]option, len(opts))
	for _, o := range opts {
		byKey[o.key] = o
	}
	for k, v := range values {
		o, ok := byKey[k]
		if !ok {
			return fmt.Errorf("config file %s: unknown key %q", path, k)
		}
		if err := o.set(v); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return nil
}

// readDotenv parses path without touching the process environment. An
// empty path reads .env when it exists.
func readDotenv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return values, nil
}
