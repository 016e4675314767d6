package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
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

// stringList collects a comma-separated flag value.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// parseFlags parses the command-line arguments into a partial config. Only
// flags present in args produce non-zero fields.
//
// Flags:
//
//	-a HTTP address in format [host]:[port]
//	-c/-config config file path (.json, .yaml, .yml)
//	-model model name
//	-model-type model architecture
//	-served-model-names comma-separated aliases
//	-log-level zerolog level (debug, info, warn, ...)
//	-read-timeout / -write-timeout / -shutdown-timeout durations (e.g. "30s")
//	-block-size KV-cache block size in tokens
//	-max-num-blocks KV-cache block count
//	-gpu-memory-utilization fraction of device memory for the cache
//	-tp tensor parallel size
//	-pp pipeline parallel size
func parseFlags(args []string) (*ServerConfig, error) {
	var (
		address           NetAddress
		configFile        string
		modelName         string
		modelType         string
		servedModelNames  stringList
		logLevel          string
		readTimeout       time.Duration
		writeTimeout      time.Duration
		shutdownTimeout   time.Duration
		blockSize         int
		maxNumBlocks      int
		gpuMemoryFraction float64
		tensorParallel    int
		pipelineParallel  int
	)

	fs := flag.NewFlagSet("capri-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&address, "a", "Net address host:port")
	fs.StringVar(&configFile, "c", "", "Config file path")
	fs.StringVar(&configFile, "config", "", "Config file path (alias)")
	fs.StringVar(&modelName, "model", "", "Model name")
	fs.StringVar(&modelType, "model-type", "", "Model architecture")
	fs.Var(&servedModelNames, "served-model-names", "Comma-separated model aliases")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout (e.g., 30s)")
	fs.DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout (e.g., 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 10s)")
	fs.IntVar(&blockSize, "block-size", 0, "KV-cache block size")
	fs.IntVar(&maxNumBlocks, "max-num-blocks", 0, "KV-cache block count")
	fs.Float64Var(&gpuMemoryFraction, "gpu-memory-utilization", 0, "Fraction of device memory for the KV cache")
	fs.IntVar(&tensorParallel, "tp", 0, "Tensor parallel size")
	fs.IntVar(&pipelineParallel, "pp", 0, "Pipeline parallel size")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &ServerConfig{
		ModelName:        modelName,
		ModelType:        modelType,
		ServedModelNames: servedModelNames,
		LogLevel:         logLevel,
		ConfigFile:       configFile,
		HTTP: HTTP{
			Address:         address.String(),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Cache: Cache{
			BlockSize:            blockSize,
			MaxNumBlocks:         maxNumBlocks,
			GPUMemoryUtilization: gpuMemoryFraction,
		},
		Parallel: Parallel{
			TensorParallelSize:   tensorParallel,
			PipelineParallelSize: pipelineParallel,
		},
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host listens on all interfaces. It validates the port range and
// checks IP correctness unless host is "localhost".
func (a *NetAddress) Set(s string) error {
	host, portText, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portText)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
