package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const paramFilename = "param.yaml"

type ServerConfig struct {
	ConfigDir      string
	DebugMode      bool
	SimulationMode bool

	fs afero.Fs

	*ServerParam
}

// Overrides carries the command line values that take precedence over the
// param file. Nil fields leave the file value untouched.
type Overrides struct {
	Bus           *string
	Address       *uint
	StaleAfter    *time.Duration
	MaxLineLength *int
	Retries       *int
	Backoff       *time.Duration
	ThermalZone   *string
	Interface     *string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewServerConfig loads the param file of configDir, creating both the folder
// and a default param file when missing.
func NewServerConfig(fs afero.Fs, configDir string, debugMode bool, simulationMode bool) (*ServerConfig, error) {
	serverConfig := &ServerConfig{
		ConfigDir:      configDir,
		DebugMode:      debugMode,
		SimulationMode: simulationMode,
		fs:             fs,
	}

	// Check Configuration folder
	exists, err := afero.DirExists(fs, configDir)
	if err != nil {
		return nil, fmt.Errorf("unable to access config folder %s: %w", configDir, err)
	}
	if !exists {
		logrus.Printf("Creation of config folder: %s", configDir)
		if err = fs.MkdirAll(configDir, 0770); err != nil {
			return nil, fmt.Errorf("unable to create config folder: %w", err)
		}
	}

	// Open param file
	rawConfig, err := afero.ReadFile(fs, serverConfig.GetCompleteParamFilename())
	switch {
	case err == nil:
		// Interpret param file
		serverConfig.ServerParam, err = parseParam(rawConfig)
		if err != nil {
			return nil, fmt.Errorf("unable to interpret param file %s: %w", serverConfig.GetCompleteParamFilename(), err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam, err = parseParam(ParamDefaultFile)
		if err != nil {
			return nil, fmt.Errorf("unable to interpret default param file: %w", err)
		}
		if err = serverConfig.SaveParam(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unable to read param file: %w", err)
	}

	if err = serverConfig.Validate(); err != nil {
		return nil, err
	}
	return serverConfig, nil
}

// parseParam reads raw over the embedded defaults so that a param file only
// needs to list what it changes.
func parseParam(raw []byte) (*ServerParam, error) {
	param := &ServerParam{}
	if err := yaml.Unmarshal(ParamDefaultFile, param); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, param); err != nil {
		return nil, err
	}
	return param, nil
}

func (sc *ServerConfig) Override(o Overrides) error {
	if o.Bus != nil {
		sc.Display.Bus = *o.Bus
	}
	if o.Address != nil {
		if *o.Address > 0x7F {
			return fmt.Errorf("invalid i2c address %#x", *o.Address)
		}
		sc.Display.Address = uint16(*o.Address)
	}
	if o.StaleAfter != nil {
		sc.Render.StaleAfter = *o.StaleAfter
	}
	if o.MaxLineLength != nil {
		sc.Input.MaxLineLength = *o.MaxLineLength
	}
	if o.Retries != nil {
		sc.Retry.Count = *o.Retries
	}
	if o.Backoff != nil {
		sc.Retry.Backoff = *o.Backoff
	}
	if o.ThermalZone != nil {
		sc.System.ThermalZone = *o.ThermalZone
	}
	if o.Interface != nil {
		sc.System.Interface = *o.Interface
	}
	return sc.Validate()
}

func (sc *ServerConfig) Validate() error {
	err := validate.Struct(sc.ServerParam)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation failed: %w", err)
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s=%s, got %v)", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Param(), fieldErr.Value()))
	}
	return fmt.Errorf("invalid param: %s: %w", strings.Join(fields, ", "), err)
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) GetCompleteSnapshotFilename() string {
	if filepath.IsAbs(sc.Simulation.Snapshot) {
		return sc.Simulation.Snapshot
	}
	return filepath.Join(sc.ConfigDir, sc.Simulation.Snapshot)
}

// Fs is the filesystem the configuration was read from.
func (sc *ServerConfig) Fs() afero.Fs {
	return sc.fs
}

func (sc *ServerConfig) SaveParam() error {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		return fmt.Errorf("unable to serialize param file: %w", err)
	}
	if err = afero.WriteFile(sc.fs, sc.GetCompleteParamFilename(), rawConfig, 0660); err != nil {
		return fmt.Errorf("unable to save param file: %w", err)
	}
	return nil
}
