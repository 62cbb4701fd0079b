package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/metoro-io/mcp-golang/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamConfig starts a stub Open-Meteo and returns a config file pointing to it
func upstreamConfig(t *testing.T) string {
	t.Helper()
	return slowUpstreamConfig(t, 0)
}

// slowUpstreamConfig is upstreamConfig with every response delayed
func slowUpstreamConfig(t *testing.T, delay time.Duration) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/v1/search":
			_, _ = fmt.Fprintf(w, `{"results":[{"name":%q,"country":"España","latitude":40.4165,"longitude":-3.70256}]}`, q.Get("name"))
		case q.Get("current_weather") == "true":
			_, _ = w.Write([]byte(`{"current_weather":{"temperature":15.2,"windspeed":10.0,"time":"2024-01-01T12:00"}}`))
		default:
			_, _ = fmt.Fprintf(w, `{"daily":{"time":["2024-01-01","2024-01-02"],"temperature_2m_max":[12.5,13.0],"temperature_2m_min":[3.1,4.0],"precipitation_sum":[0.0,%s]}}`, q.Get("forecast_days"))
		}
	}))
	t.Cleanup(server.Close)

	cfg := fmt.Sprintf(`open_meteo:
  geocoding_url: %s/v1/search
  forecast_url: %s/v1/forecast
  timeout_ms: 2000
log:
  level: error
`, server.URL, server.URL)

	file := filepath.Join(t.TempDir(), "weathermcp.yaml")
	require.NoError(t, os.WriteFile(file, []byte(cfg), 0o600))
	return file
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr, func(code int) {
		t.Fatalf("unexpected exit: %d", code)
	})
	return stdout.String(), stderr.String(), err
}

func TestTools(t *testing.T) {
	out, _, err := execute(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "geocode_city"`)
	assert.Contains(t, out, `"name": "get_current_weather"`)
	assert.Contains(t, out, `"name": "get_forecast"`)

	out, _, err = execute(t, "tools", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- name: get_forecast")

	out, _, err = execute(t, "tools", "-f", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, `name = "geocode_city"`)

	_, _, err = execute(t, "tools", "--format", "xml")
	assert.Error(t, err)
}

func TestCall(t *testing.T) {
	cfg := upstreamConfig(t)

	out, _, err := execute(t, "--cfg", cfg, "call", "geocode_city", `{"city_name":"Madrid"}`)
	require.NoError(t, err)
	assert.Equal(t, "Ciudad: Madrid, País: España\nLatitud: 40.4165, Longitud: -3.70256\n", out)

	out, _, err = execute(t, "--cfg", cfg, "call", "geocode_city", "city_name: Sevilla", "--format", "yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Ciudad: Sevilla, País: España"), out)

	out, _, err = execute(t, "--cfg", cfg, "call", "get_current_weather", "-a", "latitude=40.4168", "-a", "longitude=-3.7038")
	require.NoError(t, err)
	assert.Contains(t, out, "Clima actual en (40.4168, -3.7038):")

	out, _, err = execute(t, "--cfg", cfg, "call", "get_forecast", `{"latitude":1,"longitude":2}`, "-a", "days=2")
	require.NoError(t, err)
	assert.Equal(t, "Pronóstico para (1.0, 2.0) por 2 días:\n"+
		"- 2024-01-01: Máx 12.5°C, Mín 3.1°C, Precipitación: 0.0mm\n"+
		"- 2024-01-02: Máx 13.0°C, Mín 4.0°C, Precipitación: 2.0mm\n", out)
}

func TestCall_Verbose(t *testing.T) {
	cfg := upstreamConfig(t)

	out, errOut, err := execute(t, "--cfg", cfg, "call", "geocode_city", `{"city_name":"Bilbao"}`, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Ciudad: Bilbao")
	assert.Contains(t, errOut, "Tool Start: geocode_city")
	assert.Contains(t, errOut, "*** Run Started ***")
	assert.Contains(t, errOut, "Calls: 1, Failed: 0")
}

func TestCall_Errors(t *testing.T) {
	cfg := upstreamConfig(t)

	_, _, err := execute(t, "--cfg", cfg, "call", "get_tides")
	assert.EqualError(t, err, "unknown tool: get_tides")

	_, _, err = execute(t, "--cfg", cfg, "call", "geocode_city", "not json")
	assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")

	_, _, err = execute(t, "--cfg", cfg, "call", "geocode_city", "city_name = [", "-f", "toml")
	assert.Error(t, err)

	_, _, err = execute(t, "--cfg", filepath.Join(t.TempDir(), "missing.yaml"), "tools")
	assert.Error(t, err)

	// validation errors are rendered as the tool result
	out, _, err := execute(t, "--cfg", cfg, "call", "get_forecast", `{"latitude":1,"longitude":2,"days":0}`)
	require.NoError(t, err)
	assert.Equal(t, "Error al obtener el pronóstico: invalid argument days: must be at least 1\n", out)
}

func TestCallArguments(t *testing.T) {
	c := &callCmd{
		Format: "json",
		Arg: map[string]string{
			"city_name": "San Sebastián",
			"days":      "4",
		},
	}
	input, err := c.arguments()
	require.NoError(t, err)
	assert.JSONEq(t, `{"city_name":"San Sebastián","days":4}`, input)

	c = &callCmd{Format: "toml", Input: "latitude = 1.5\nlongitude = 2.5"}
	input, err = c.arguments()
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":1.5,"longitude":2.5}`, input)
}

func TestStdio(t *testing.T) {
	cfg := upstreamConfig(t)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	var stderr bytes.Buffer

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(context.Background(), []string{"--cfg", cfg, "stdio"}, inR, outW, &stderr, func(int) {})
		_ = outW.Close()
	}()

	responses := bufio.NewScanner(outR)
	roundtrip := func(req string) map[string]any {
		_, err := io.WriteString(inW, req+"\n")
		require.NoError(t, err)
		require.True(t, responses.Scan(), "no response")
		var res map[string]any
		require.NoError(t, json.Unmarshal(responses.Bytes(), &res))
		return res
	}

	res := roundtrip(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`)
	assert.EqualValues(t, 1, res["id"])
	result, ok := res["result"].(map[string]any)
	require.True(t, ok, res)
	info, ok := result["serverInfo"].(map[string]any)
	require.True(t, ok, result)
	assert.Equal(t, "WeatherServer", info["name"])

	res = roundtrip(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"geocode_city","arguments":{"city_name":"Madrid"}}}`)
	assert.EqualValues(t, 2, res["id"])
	js, err := json.Marshal(res["result"])
	require.NoError(t, err)
	assert.Contains(t, string(js), `Ciudad: Madrid, País: España`)

	require.NoError(t, inW.Close())
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio did not stop on EOF")
	}

	t.Run("stdin closed with calls in flight", func(t *testing.T) {
		cfg := slowUpstreamConfig(t, 300*time.Millisecond)
		in := strings.Join([]string{
			`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
			`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"geocode_city","arguments":{"city_name":"Madrid"}}}`,
			`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_forecast","arguments":{"latitude":40.4,"longitude":-3.7,"days":2}}}`,
		}, "\n") + "\n"

		var stdout, stderr bytes.Buffer
		err := run(context.Background(), []string{"--cfg", cfg, "stdio"}, strings.NewReader(in), &stdout, &stderr, func(int) {})
		require.NoError(t, err)

		byID := map[float64]string{}
		scanner := bufio.NewScanner(&stdout)
		for scanner.Scan() {
			var res map[string]any
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &res), scanner.Text())
			id, _ := res["id"].(float64)
			byID[id] = scanner.Text()
		}
		require.Len(t, byID, 3, stdout.String())
		assert.Contains(t, byID[1], "WeatherServer")
		assert.Contains(t, byID[2], "Ciudad: Madrid, País: España")
		assert.Contains(t, byID[3], "Pronóstico para (40.4, -3.7) por 2 días:")
	})
}

type fakeTransport struct {
	transport.Transport
	handler func(context.Context, *transport.BaseJsonRpcMessage)
}

func (f *fakeTransport) SetMessageHandler(handler func(context.Context, *transport.BaseJsonRpcMessage)) {
	f.handler = handler
}

func (f *fakeTransport) Send(context.Context, *transport.BaseJsonRpcMessage) error {
	return nil
}

func TestInflight(t *testing.T) {
	ctx := context.Background()
	fake := &fakeTransport{}
	tr := newInflight(fake)

	handled := 0
	tr.SetMessageHandler(func(context.Context, *transport.BaseJsonRpcMessage) { handled++ })
	require.NotNil(t, fake.handler)
	assert.True(t, tr.Wait(ctx))

	fake.handler(ctx, transport.NewBaseMessageRequest(&transport.BaseJSONRPCRequest{Jsonrpc: "2.0", Id: 1, Method: "tools/call"}))
	fake.handler(ctx, transport.NewBaseMessageRequest(&transport.BaseJSONRPCRequest{Jsonrpc: "2.0", Id: 2, Method: "tools/call"}))
	fake.handler(ctx, transport.NewBaseMessageNotification(&transport.BaseJSONRPCNotification{Jsonrpc: "2.0", Method: "notifications/initialized"}))
	assert.Equal(t, 3, handled)
	assert.Equal(t, 2, tr.Pending())

	wctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.False(t, tr.Wait(wctx))

	require.NoError(t, tr.Send(ctx, transport.NewBaseMessageResponse(&transport.BaseJSONRPCResponse{Jsonrpc: "2.0", Id: 1})))
	require.NoError(t, tr.Send(ctx, transport.NewBaseMessageNotification(&transport.BaseJSONRPCNotification{Jsonrpc: "2.0", Method: "notifications/message"})))
	assert.Equal(t, 1, tr.Pending())

	go func() {
		_ = tr.Send(ctx, transport.NewBaseMessageError(&transport.BaseJSONRPCError{Jsonrpc: "2.0", Id: 2}))
	}()
	assert.True(t, tr.Wait(ctx))
	assert.Equal(t, 0, tr.Pending())
}

func TestEOFReader(t *testing.T) {
	r := newEOFReader(strings.NewReader("abc"))
	bs, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(bs))

	select {
	case <-r.Done():
	default:
		t.Fatal("expected done")
	}
}
