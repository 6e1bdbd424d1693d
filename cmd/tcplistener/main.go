// Command tcplistener prints every request it decodes and answers with a
// plain-text summary. It is a debugging aid for the request codec.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

func main() {
	addr := flag.String("addr", ":42069", "address to listen on")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("listen")
	}
	defer listener.Close()
	log.Info().Str("addr", listener.Addr().String()).Msg("listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error().Err(err).Msg("accept")
			continue
		}

		go handleConnection(conn, log.With().Str("conn_id", uuid.NewString()).Logger())
	}
}

func handleConnection(conn net.Conn, log zerolog.Logger) {
	defer conn.Close()

	req, err := request.RequestFromReader(conn, request.Limits{})
	if err != nil {
		if errors.Is(err, request.ErrNoRequest) {
			return
		}
		log.Warn().Err(err).Msg("decode failed")
		if request.IsDecodeError(err) {
			response.Empty(response.StatusBadRequest).WriteTo(conn)
		}
		return
	}

	summary := describe(req)
	fmt.Print(summary)

	if _, err := response.Text(response.StatusOK, summary).WriteTo(conn); err != nil {
		log.Error().Err(err).Msg("write failed")
	}
}

func describe(req *request.Request) string {
	var b strings.Builder

	b.WriteString("Request line:\n")
	fmt.Fprintf(&b, "- Method: %s\n", req.Method)
	fmt.Fprintf(&b, "- Target: %s\n", req.Path)
	fmt.Fprintf(&b, "- Version: %s\n", req.Version)

	b.WriteString("Headers:\n")
	for _, name := range req.Headers.Names() {
		v, _ := req.Headers.Get(name)
		fmt.Fprintf(&b, "- %s: %s\n", name, v)
	}

	b.WriteString("Body:\n")
	b.Write(req.Body)
	b.WriteString("\n")
	return b.String()
}
