package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Auth     Auth     `koanf:"auth"`
	Database Database `koanf:"db"`
	Storage  Storage  `koanf:"storage"`
}

type Auth struct {
	Secret   string `koanf:"secret"`
	TokenTTL string `koanf:"tokenttl"`
}

type Database struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `koanf:"driver"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	// Path is used by the sqlite driver only.
	Path string `koanf:"path"`
}

type Storage struct {
	Bucket          string `koanf:"bucket"`
	Folder          string `koanf:"folder"`
	CredentialsFile string `koanf:"credentialsfile"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8080",
		Auth: Auth{
			TokenTTL: "3h",
		},
		Database: Database{
			Driver: "postgres",
			Host:   "localhost",
			Port:   5432,
			User:   "univent",
			Pass:   "",
			Name:   "univent",
			Path:   "univent.db",
		},
		Storage: Storage{
			Folder: "events_files",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "UNIVENT_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "UNIVENT_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
