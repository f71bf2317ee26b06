package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
	token  string
}

// SetupSuite loads the environment configuration and logs in as admin.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.DashboardAddr == "" {
		s.T().Skip("DASHBOARD_ADDR is not set")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}

	var login struct {
		Token string `json:"token"`
	}
	status := s.Call("Admin login", http.MethodPost, "/check_admin", map[string]string{"password": s.Config.AdminPassword}, &login)
	s.Require().Equal(http.StatusOK, status)
	s.token = login.Token
}

// Call sends a JSON request to the dashboard and decodes the answer in out.
func (s *BaseHTTPSuite) Call(name, method, path string, body any, out any) int {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.Config.DashboardAddr+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.T().Logf("HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		s.T().Log(string(raw))
	}
	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

// Publish plays the receiver side of the MQTT channel.
func (s *BaseHTTPSuite) Publish(topic string, payload any) {
	opts := paho.NewClientOptions().
		AddBroker(s.Config.BrokerURL).
		SetClientID(fmt.Sprintf("share-lab-e2e-%d", time.Now().UnixNano()))
	client := paho.NewClient(opts)
	token := client.Connect()
	s.Require().True(token.WaitTimeout(5*time.Second), "broker %s not reachable", s.Config.BrokerURL)
	s.Require().NoError(token.Error())
	defer client.Disconnect(100)

	raw, err := json.Marshal(payload)
	s.Require().NoError(err)
	token = client.Publish(topic, 1, false, raw)
	s.Require().True(token.WaitTimeout(5 * time.Second))
	s.Require().NoError(token.Error())
}
