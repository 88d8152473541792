// Package client talks to the Postura REST API on behalf of posturectl.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/posture"
)

const (
	DefaultTimeout   = 15 * time.Second
	defaultUserAgent = "posturectl"
)

var ErrSessionExists = errors.New("session already uploaded")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (err *APIError) Error() string {
	if err.Message != "" && err.Message != err.Code {
		return fmt.Sprintf("server returned %d: %s (%s)", err.Status, err.Code, err.Message)
	}
	return fmt.Sprintf("server returned %d: %s", err.Status, err.Code)
}

type User struct {
	ID          uint            `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Age         int             `json:"age"`
	Gender      string          `json:"gender"`
	Height      float64         `json:"height"`
	Weight      float64         `json:"weight"`
	FitnessGoal string          `json:"fitnessGoal"`
	Settings    models.Settings `json:"settings"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastActive  *time.Time      `json:"lastActive"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type Client struct {
	baseURL   string
	token     string
	timeout   time.Duration
	userAgent string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
	}
}

func (client *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		client.timeout = timeout
	}
	return client
}

func (client *Client) SetToken(token string) {
	client.token = strings.TrimSpace(token)
}

func (client *Client) Token() string {
	return client.token
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Name        string  `json:"name"`
	Age         int     `json:"age,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	FitnessGoal string  `json:"fitnessGoal,omitempty"`
}

// Register creates an account and keeps the issued token.
func (client *Client) Register(request RegisterRequest) (User, error) {
	var response authResponse
	if err := client.send(fiber.Post(client.url("/api/auth/register")).JSON(request), &response); err != nil {
		return User{}, err
	}
	client.token = response.Token
	return response.User, nil
}

// Login exchanges credentials for a token and keeps it.
func (client *Client) Login(email string, password string) (User, error) {
	payload := map[string]string{"email": email, "password": password}

	var response authResponse
	if err := client.send(fiber.Post(client.url("/api/auth/login")).JSON(payload), &response); err != nil {
		return User{}, err
	}
	client.token = response.Token
	return response.User, nil
}

func (client *Client) Me() (User, error) {
	var response struct {
		User User `json:"user"`
	}
	if err := client.send(fiber.Get(client.url("/api/auth/me")), &response); err != nil {
		return User{}, err
	}
	return response.User, nil
}

func (client *Client) UpdateProfile(update models.ProfileUpdate) (User, error) {
	var response struct {
		User User `json:"user"`
	}
	if err := client.send(fiber.Put(client.url("/api/profile")).JSON(update), &response); err != nil {
		return User{}, err
	}
	return response.User, nil
}

func (client *Client) GetSettings() (models.Settings, error) {
	var response struct {
		Settings models.Settings `json:"settings"`
	}
	if err := client.send(fiber.Get(client.url("/api/settings")), &response); err != nil {
		return models.Settings{}, err
	}
	return response.Settings, nil
}

func (client *Client) UpdateSettings(update models.SettingsUpdate) (models.Settings, error) {
	var response struct {
		Settings models.Settings `json:"settings"`
	}
	if err := client.send(fiber.Put(client.url("/api/settings")).JSON(update), &response); err != nil {
		return models.Settings{}, err
	}
	return response.Settings, nil
}

type sessionUpload struct {
	ID              string                `json:"id"`
	StartTime       time.Time             `json:"startTime"`
	EndTime         *time.Time            `json:"endTime,omitempty"`
	TotalTime       int                   `json:"totalTime"`
	GoodPostureTime int                   `json:"goodPostureTime"`
	AverageScore    int                   `json:"averageScore"`
	Issues          []models.PostureIssue `json:"issues"`
	Scores          []models.ScoreSample  `json:"scores"`
}

// UploadSession sends a finalized local session, keeping its id so a repeat
// upload is reported as ErrSessionExists.
func (client *Client) UploadSession(session models.PostureSession) (models.PostureSession, error) {
	upload := sessionUpload{
		ID:              session.ID,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		TotalTime:       session.TotalTime,
		GoodPostureTime: session.GoodPostureTime,
		AverageScore:    session.AverageScore,
		Issues:          session.Issues,
		Scores:          session.Scores,
	}

	var response struct {
		Session models.PostureSession `json:"session"`
	}
	err := client.send(fiber.Post(client.url("/api/sessions")).JSON(upload), &response)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == fiber.StatusConflict {
		return models.PostureSession{}, ErrSessionExists
	}
	if err != nil {
		return models.PostureSession{}, err
	}
	return response.Session, nil
}

func (client *Client) ListSessions(page int, limit int) ([]models.PostureSession, Pagination, error) {
	var response struct {
		Sessions   []models.PostureSession `json:"sessions"`
		Pagination Pagination              `json:"pagination"`
	}
	path := fmt.Sprintf("/api/sessions?page=%d&limit=%d", page, limit)
	if err := client.send(fiber.Get(client.url(path)), &response); err != nil {
		return nil, Pagination{}, err
	}
	return response.Sessions, response.Pagination, nil
}

func (client *Client) DeleteSession(id string) error {
	return client.send(fiber.Delete(client.url("/api/sessions/"+id)), nil)
}

func (client *Client) Stats(weekly bool) (posture.Summary, error) {
	path := "/api/stats"
	if weekly {
		path += "?window=week"
	}
	var response struct {
		Stats posture.Summary `json:"stats"`
	}
	if err := client.send(fiber.Get(client.url(path)), &response); err != nil {
		return posture.Summary{}, err
	}
	return response.Stats, nil
}

func (client *Client) WipeData() error {
	return client.send(fiber.Delete(client.url("/api/data")), nil)
}

func (client *Client) url(path string) string {
	return client.baseURL + path
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (client *Client) send(agent *fiber.Agent, out any) error {
	agent.Timeout(client.timeout)
	agent.Set(fiber.HeaderUserAgent, client.userAgent)
	agent.Set("Sec-CH-UA-Platform", runtime.GOOS)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if client.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+client.token)
	}

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("prepare request: %w", err)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("send request: %w", errors.Join(errs...))
	}

	if status >= fiber.StatusBadRequest {
		var envelope errorEnvelope
		_ = json.Unmarshal(body, &envelope)
		if envelope.Error == "" {
			envelope.Error = strings.TrimSpace(string(body))
		}
		return &APIError{Status: status, Code: envelope.Error, Message: envelope.Message}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
