package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// peerList is a comma separated flag value.
type peerList []string

func (p *peerList) String() string { return strings.Join(*p, ",") }

func (p *peerList) Set(s string) error {
	*p = normalizePeers(strings.Split(s, ","))
	return nil
}

// normalizePeers trims the ids and drops the empty ones. A list without any
// id is nil.
func normalizePeers(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// ParseFlags parses the host flags from the process arguments.
//
// Flags:
//
//	-a debug API address in format [host]:[port]
//	-d sqlite DSN for Persist-class stores
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-peers comma separated peer connection ids
//	-frame-interval loop tick period (e.g., "16ms")
//	-persist-interval flush period of persisted stores
//	-prefabs prefab catalog path
//	-demo populate peers with the demo scene
//	-headless run without the debug API
func ParseFlags(name string, args []string) (*StructuredConfig, error) {
	return parseFlags(name, args)
}

func parseFlags(name string, args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var serverAddress NetAddress
	var peers peerList
	var databaseDSN, jsonConfigPath, prefabs string
	var requestTimeout, frameInterval, persistInterval time.Duration
	var demo, headless bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "SQLite DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Var(&peers, "peers", "Comma separated peer ids")
	fs.DurationVar(&frameInterval, "frame-interval", 0, "Loop tick period")
	fs.DurationVar(&persistInterval, "persist-interval", 0, "Persisted store flush period")
	fs.StringVar(&prefabs, "prefabs", "", "Prefab catalog path")
	fs.BoolVar(&demo, "demo", false, "Populate peers with the demo scene")
	fs.BoolVar(&headless, "headless", false, "Run without the debug API")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			PrefabCatalog: prefabs,
			Demo:          demo,
		},
		Storage: Storage{
			SQLite: SQLite{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			Headless:       headless,
		},
		Session: Session{
			Peers:         peers,
			FrameInterval: frameInterval,
		},
		Workers:      Workers{PersistInterval: persistInterval},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
