// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"code.cloudfoundry.org/bytefmt"
	"github.com/BurntSushi/toml"
	"github.com/ergochat/irc-go/ircutils"
	"gopkg.in/yaml.v2"

	"github.com/oxygen-irc/oxygen/irc/factoids"
	"github.com/oxygen-irc/oxygen/irc/logger"
)

// here's how this works: exported (capitalized) members of the config structs
// are defined in the config file and deserialized directly from there. They may
// be postprocessed and overwritten by LoadConfig. Unexported (lowercase) members
// and members tagged "-" are derived from the exported members in LoadConfig.

const (
	defaultPort           = 6667
	defaultTLSPort        = 6697
	defaultTrigger        = "$"
	defaultConnectTimeout = "30s"
	defaultMaxReadQString = "16k"
)

// TLSConnectConfig controls TLS for the outgoing connection.
type TLSConnectConfig struct {
	Enabled            bool
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify" toml:"insecure-skip-verify"`
	ServerName         string `yaml:"server-name" toml:"server-name"`
}

// Config returns the client TLS configuration for connecting to host.
func (conf *TLSConnectConfig) Config(host string) *tls.Config {
	serverName := conf.ServerName
	if serverName == "" {
		serverName = host
	}
	return &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: conf.InsecureSkipVerify,
	}
}

type WebsocketConfig struct {
	URL string `yaml:"url" toml:"url"`
}

type NetworkConfig struct {
	Host      string
	Port      int
	Password  string
	TLS       TLSConnectConfig `yaml:"tls" toml:"tls"`
	Websocket WebsocketConfig

	ConnectTimeoutString string        `yaml:"connect-timeout" toml:"connect-timeout"`
	ConnectTimeout       time.Duration `yaml:"-" toml:"-"`
	ReconnectDelayString string        `yaml:"reconnect-delay" toml:"reconnect-delay"`
	ReconnectDelay       time.Duration `yaml:"-" toml:"-"`
	MaxReadQString       string        `yaml:"max-readq" toml:"max-readq"`
	MaxReadQBytes        int           `yaml:"-" toml:"-"`
}

// Address is the host:port to dial for stream connections.
func (conf *NetworkConfig) Address() string {
	return net.JoinHostPort(conf.Host, fmt.Sprintf("%d", conf.Port))
}

// ThrottleConfig controls how quickly the bot may send chat replies.
type ThrottleConfig struct {
	Enabled             bool
	WindowString        string        `yaml:"window" toml:"window"`
	Window              time.Duration `yaml:"-" toml:"-"`
	BurstLimit          uint          `yaml:"burst-limit" toml:"burst-limit"`
	MessagesPerWindow   uint          `yaml:"messages-per-window" toml:"messages-per-window"`
	CooldownString      string        `yaml:"cooldown" toml:"cooldown"`
	Cooldown            time.Duration `yaml:"-" toml:"-"`
	// total time spent throttling while handling one batch of input
	MaxBatchDelayString string        `yaml:"max-batch-delay" toml:"max-batch-delay"`
	MaxBatchDelay       time.Duration `yaml:"-" toml:"-"`
}

type BotConfig struct {
	Nickname string
	Username string
	Realname string
	Channels []string
	Trigger  string
	Throttle ThrottleConfig
}

// Config defines the overall configuration.
type Config struct {
	Network  NetworkConfig
	Bot      BotConfig
	Factoids factoids.Config
	Logging  []logger.LoggingConfig

	Filename string `yaml:"-" toml:"-"`
}

// LoadConfig loads the given configuration file; files ending in .toml are read
// as TOML, everything else as YAML.
func LoadConfig(filename string) (config *Config, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config = new(Config)
	if strings.HasSuffix(strings.ToLower(filename), ".toml") {
		err = decodeTOML(string(data), config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, err
	}

	config.Filename = filename
	if err = config.postprocess(); err != nil {
		return nil, err
	}
	return config, nil
}

// flatConfig is the older single-table TOML layout:
//
//	nickname = "oxygen"
//	channels = ["#oxygen"]
//	host = "irc.example.net"
//	port = 6667
type flatConfig struct {
	Nickname string
	Channels []string
	Host     string
	Port     int
}

func decodeTOML(data string, config *Config) error {
	metadata, err := toml.Decode(data, config)
	if err != nil {
		return err
	}
	if metadata.IsDefined("network") || metadata.IsDefined("bot") {
		return nil
	}
	var flat flatConfig
	if _, err = toml.Decode(data, &flat); err != nil {
		return err
	}
	config.Network.Host = flat.Host
	config.Network.Port = flat.Port
	config.Bot.Nickname = flat.Nickname
	config.Bot.Channels = flat.Channels
	return nil
}

func parseDurationOr(value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}

func (config *Config) postprocess() (err error) {
	network := &config.Network
	if network.Websocket.URL != "" {
		wsURL, err := url.Parse(network.Websocket.URL)
		if err != nil {
			return fmt.Errorf("Could not parse websocket URL: %s", err.Error())
		}
		if wsURL.Scheme != "ws" && wsURL.Scheme != "wss" {
			return ErrWebsocketURLInvalid
		}
	} else {
		if network.Host == "" {
			return ErrHostMissing
		}
		if !(net.ParseIP(network.Host) != nil || ircutils.HostnameIsValid(network.Host) || isHostnameLabel(network.Host)) {
			return ErrHostNotHostname
		}
		if network.Port == 0 {
			if network.TLS.Enabled {
				network.Port = defaultTLSPort
			} else {
				network.Port = defaultPort
			}
		}
		if network.Port < 1 || 65535 < network.Port {
			return ErrPortInvalid
		}
	}

	network.ConnectTimeout, err = parseDurationOr(network.ConnectTimeoutString, defaultConnectTimeout)
	if err != nil {
		return fmt.Errorf("Could not parse connect-timeout: %s", err.Error())
	}
	network.ReconnectDelay, err = parseDurationOr(network.ReconnectDelayString, "0s")
	if err != nil {
		return fmt.Errorf("Could not parse reconnect-delay: %s", err.Error())
	}
	maxReadQString := network.MaxReadQString
	if maxReadQString == "" {
		maxReadQString = defaultMaxReadQString
	}
	maxReadQBytes, err := bytefmt.ToBytes(maxReadQString)
	if err != nil {
		return fmt.Errorf("Could not parse maximum ReadQ size (make sure it only contains whole numbers): %s", err.Error())
	}
	network.MaxReadQBytes = int(maxReadQBytes)

	bot := &config.Bot
	if bot.Nickname == "" {
		return ErrNicknameMissing
	}
	if !isValidParam(bot.Nickname) {
		return ErrNicknameInvalid
	}
	if bot.Username == "" {
		bot.Username = bot.Nickname
	}
	if !isValidParam(bot.Username) {
		return fmt.Errorf("Bot username is invalid: %s", bot.Username)
	}
	if bot.Realname == "" {
		bot.Realname = bot.Nickname
	}
	for _, channel := range bot.Channels {
		if !isValidParam(channel) || strings.Contains(channel, ",") {
			return fmt.Errorf("%w: [%s]", ErrChannelInvalid, channel)
		}
	}
	if bot.Trigger == "" {
		bot.Trigger = defaultTrigger
	}
	if utf8.RuneCountInString(bot.Trigger) != 1 || strings.TrimSpace(bot.Trigger) == "" {
		return ErrTriggerInvalid
	}
	if bot.Throttle.Enabled {
		bot.Throttle.Window, err = parseDurationOr(bot.Throttle.WindowString, "1s")
		if err != nil {
			return fmt.Errorf("Could not parse throttle window: %s", err.Error())
		}
		bot.Throttle.Cooldown, err = parseDurationOr(bot.Throttle.CooldownString, "2s")
		if err != nil {
			return fmt.Errorf("Could not parse throttle cooldown: %s", err.Error())
		}
		bot.Throttle.MaxBatchDelay, err = parseDurationOr(bot.Throttle.MaxBatchDelayString, "2s")
		if err != nil {
			return fmt.Errorf("Could not parse throttle max-batch-delay: %s", err.Error())
		}
		if bot.Throttle.MessagesPerWindow == 0 {
			bot.Throttle.MessagesPerWindow = 1
		}
	}

	switch config.Factoids.Backend {
	case "":
		config.Factoids.Backend = factoids.BackendText
	case factoids.BackendText, factoids.BackendBuntdb:
	default:
		return ErrFactoidsBackend
	}
	if config.Factoids.Path == "" {
		config.Factoids.Path = factoids.DefaultPath
	}

	return config.processLogging()
}

func (config *Config) processLogging() error {
	if len(config.Logging) == 0 {
		config.Logging = []logger.LoggingConfig{{
			Method:      "stdout",
			TypeString:  "* -input -output",
			LevelString: "info",
		}}
	}

	var newLogConfigs []logger.LoggingConfig
	for _, logConfig := range config.Logging {
		// methods
		methods := make(map[string]bool)
		for _, method := range strings.Split(logConfig.Method, " ") {
			if len(method) > 0 {
				methods[strings.ToLower(method)] = true
			}
		}
		if methods["file"] && logConfig.Filename == "" {
			return ErrLoggerFilenameMissing
		}
		logConfig.MethodFile = methods["file"]
		logConfig.MethodStdout = methods["stdout"]
		logConfig.MethodStderr = methods["stderr"]

		// levels
		level, exists := logger.LogLevelNames[strings.ToLower(logConfig.LevelString)]
		if !exists {
			return fmt.Errorf("Could not translate log level [%s]", logConfig.LevelString)
		}
		logConfig.Level = level

		// types
		for _, typeStr := range strings.Split(logConfig.TypeString, " ") {
			if len(typeStr) == 0 {
				continue
			}
			if typeStr == "-" {
				return ErrLoggerExcludeEmpty
			}
			if typeStr[0] == '-' {
				typeStr = typeStr[1:]
				logConfig.ExcludedTypes = append(logConfig.ExcludedTypes, typeStr)
			} else {
				logConfig.Types = append(logConfig.Types, typeStr)
			}
		}
		if len(logConfig.Types) < 1 {
			return ErrLoggerHasNoTypes
		}

		newLogConfigs = append(newLogConfigs, logConfig)
	}
	config.Logging = newLogConfigs
	return nil
}

// isHostnameLabel accepts a dotless hostname such as "localhost" or a
// container service name, which ircutils.HostnameIsValid rejects.
func isHostnameLabel(name string) bool {
	if len(name) == 0 || 63 < len(name) || name[0] == '-' || name[len(name)-1] == '-' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// a middle parameter can't be empty, contain a space, or start with ':'
func isValidParam(param string) bool {
	return param != "" && !strings.ContainsAny(param, " \r\n\x00") && param[0] != ':'
}
