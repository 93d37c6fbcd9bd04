// Interactive test client for the bug-hunt game server. Speaks the JSON
// envelope protocol over a websocket and prints every broadcast.
//
// Commands (stdin, one per line):
//
//	create <name>          create a room
//	join <code> <name>     join a room
//	ready                  toggle readiness
//	start                  start the game (host only)
//	buzz                   buzz and open an elimination vote
//	vote <playerId|skip>   cast a buzz vote
//	fix <code...>          submit a fix
//	leave                  leave the room
package main

import (
	"bufio"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Action string      `json:"action"`
	Seq    int64       `json:"seq"`
	Data   interface{} `json:"data,omitempty"`
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addr := "localhost:8080"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	var seq int64
	send := func(action string, data interface{}) {
		seq++
		if err := c.WriteJSON(envelope{Action: action, Seq: seq, Data: data}); err != nil {
			log.Println("Write error:", err)
		}
	}

	log.Println("Client started. Type 'create <name>' to open a room.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "create":
			if len(fields) < 2 {
				log.Println("usage: create <name>")
				continue
			}
			send("createRoom", map[string]string{"playerName": fields[1]})
		case "join":
			if len(fields) < 3 {
				log.Println("usage: join <code> <name>")
				continue
			}
			send("joinRoom", map[string]string{"roomCode": fields[1], "playerName": fields[2]})
		case "ready":
			send("playerReady", nil)
		case "start":
			send("startGame", nil)
		case "buzz":
			send("buzz", nil)
		case "vote":
			if len(fields) < 2 {
				log.Println("usage: vote <playerId|skip>")
				continue
			}
			send("castBuzzVote", map[string]string{"targetPlayerId": fields[1]})
		case "fix":
			send("submitFix", map[string]string{"fixedCode": strings.Join(fields[1:], " ")})
		case "leave":
			send("leaveRoom", nil)
		default:
			log.Printf("Unknown command %q", fields[0])
		}
	}
}
