// Command assidenter-client is a small demo client. It authenticates,
// subscribes to the event stream, and drives one voice turn plus one
// text turn against a running server.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
)

type authRequest struct {
	Secret string `json:"secret"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientID  string    `json:"client_id"`
}

type eventMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	MessageID string      `json:"message_id"`
	Timestamp string      `json:"timestamp"`
}

func main() {
	host := flag.String("host", "localhost:8090", "server host:port")
	secret := flag.String("secret", "", "shared client secret")
	audioPath := flag.String("audio", "sample_audio.wav", "WAV file to send")
	message := flag.String("message", "Hello, what can you do?", "text message to send")
	flag.Parse()

	token, clientID, err := authenticate(*host, *secret)
	if err != nil {
		log.Fatal("authenticate:", err)
	}
	log.Printf("authenticated as client %s", clientID)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *host, Path: "/ws"}
	log.Printf("connecting to %s", u.String())

	headers := http.Header{}
	headers.Add("Authorization", "Bearer "+token)

	c, _, err := websocket.DefaultDialer.Dial(u.String(), headers)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go handleEvents(c, done)

	if err := sendAudioTurn(*host, *audioPath); err != nil {
		log.Printf("audio turn: %v", err)
	}
	if err := sendTextTurn(*host, *message); err != nil {
		log.Printf("text turn: %v", err)
	}

	select {
	case <-done:
		return
	case <-interrupt:
		log.Println("interrupt")
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return
	}
}

func authenticate(host, secret string) (string, string, error) {
	jsonData, err := json.Marshal(authRequest{Secret: secret})
	if err != nil {
		return "", "", err
	}

	resp, err := http.Post("http://"+host+"/api/v1/auth", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("authentication failed: %s", string(body))
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", "", err
	}
	return auth.Token, auth.ClientID, nil
}

func sendAudioTurn(host, path string) error {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read audio file: %w", err)
	}
	log.Printf("sending %s (%d bytes)", path, len(audioData))

	payload := map[string]string{
		"audio": base64.StdEncoding.EncodeToString(audioData),
	}
	return postTurn(host, "/api/v1/audio", payload)
}

func sendTextTurn(host, message string) error {
	log.Printf("sending text message: %q", message)
	return postTurn(host, "/api/v1/messages", map[string]string{"message": message})
}

func postTurn(host, route string, payload map[string]string) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post("http://"+host+route, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("turn failed (%d): %s", resp.StatusCode, string(body))
	}

	log.Printf("turn result: %s", string(body))
	return nil
}

func handleEvents(c *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			return
		}

		var event eventMessage
		if err := json.Unmarshal(message, &event); err != nil {
			log.Println("unmarshal error:", err)
			continue
		}

		switch event.Type {
		case "tts-audio":
			encoded, ok := event.Payload.(string)
			if !ok {
				log.Printf("tts-audio payload is not a string")
				continue
			}
			if err := saveAudioResponse(encoded); err != nil {
				log.Printf("save audio response: %v", err)
			}
		case "transcription":
			log.Printf("transcription: %v", event.Payload)
		case "llm-response":
			log.Printf("assistant: %v", event.Payload)
		default:
			log.Printf("event %s: %v", event.Type, event.Payload)
		}
	}
}

func saveAudioResponse(encoded string) error {
	audioData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return err
	}

	dir := "audio_responses"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.wav", time.Now().Unix()))
	if err := os.WriteFile(path, audioData, 0644); err != nil {
		return err
	}
	log.Printf("saved audio response to %s (%d bytes)", path, len(audioData))
	return nil
}
