package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Version       string `json:"version"`
		PrefabCatalog string `json:"prefab_catalog"`
		Demo          bool   `json:"demo"`
	} `json:"app,omitempty"`

	Storage struct {
		SQLite struct {
			DSN string `json:"dsn"`
		} `json:"sqlite,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Headless       bool     `json:"headless"`
	} `json:"server,omitempty"`

	Session struct {
		Peers                   []string `json:"peers"`
		FrameInterval           Duration `json:"frame_interval"`
		StoreGracePeriod        Duration `json:"store_grace_period"`
		SessionStoreGracePeriod Duration `json:"session_store_grace_period"`
		RequireInvite           bool     `json:"require_invite"`
		RequireSessionStore     bool     `json:"require_session_store"`
		Colocated               bool     `json:"colocated"`
		EntranceTimeout         Duration `json:"entrance_timeout"`
		SendsPerSecond          float64  `json:"sends_per_second"`
	} `json:"session,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Output         string   `json:"output"`
	} `json:"adapter,omitempty"`

	Workers struct {
		PersistInterval Duration `json:"persist_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	s := jsonCfg.Session
	cfg := &StructuredConfig{
		App: App{
			Version:       jsonCfg.App.Version,
			PrefabCatalog: jsonCfg.App.PrefabCatalog,
			Demo:          jsonCfg.App.Demo,
		},
		Storage: Storage{
			SQLite: SQLite{DSN: jsonCfg.Storage.SQLite.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			Headless:       jsonCfg.Server.Headless,
		},
		Session: Session{
			Peers:                   s.Peers,
			FrameInterval:           time.Duration(s.FrameInterval),
			StoreGracePeriod:        time.Duration(s.StoreGracePeriod),
			SessionStoreGracePeriod: time.Duration(s.SessionStoreGracePeriod),
			RequireInvite:           s.RequireInvite,
			RequireSessionStore:     s.RequireSessionStore,
			Colocated:               s.Colocated,
			EntranceTimeout:         time.Duration(s.EntranceTimeout),
			SendsPerSecond:          s.SendsPerSecond,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Output:         jsonCfg.Adapter.Output,
		},
		Workers: Workers{
			PersistInterval: time.Duration(jsonCfg.Workers.PersistInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
