package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var baseURL = func() string {
	if v := os.Getenv("SEED_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8087"
}()

type authResp struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	// Two users: enough to exercise the whole friendship/engagement surface.
	alice := register()
	bob := register()

	// Friend request: send, list, accept.
	reqID := sendFriendRequest(alice.Token, bob.UserID)
	acceptFriendRequest(bob.Token, reqID)
	listFriends(alice.Token)

	// A post with a poll; both users vote, bob switches his vote.
	postID, optionIDs := createPollPost(alice.Token)
	vote(alice.Token, postID, optionIDs[0])
	vote(bob.Token, postID, optionIDs[0])
	vote(bob.Token, postID, optionIDs[1])
	results(postID)

	// Engagement: comment, like the comment, like and save the post.
	commentID := comment(bob.Token, postID)
	toggle(alice.Token, fmt.Sprintf("/comments/%d/like", commentID))
	toggle(bob.Token, fmt.Sprintf("/posts/%d/like", postID))
	toggle(bob.Token, fmt.Sprintf("/posts/%d/save", postID))

	// A story, then the sweep (should delete nothing yet).
	story(alice.Token)
	post("", "/stories/sweep", nil, nil)

	// Alice reads her notifications.
	get(alice.Token, "/notifications", nil)

	log.Println("seeding complete")
}

func register() authResp {
	var out authResp
	post("", "/auth/register", map[string]any{
		"username": gofakeit.Username(),
		"name":     gofakeit.Name(),
		"password": "123456",
	}, &out)
	if out.Token == "" {
		log.Fatal("could not obtain token, aborting seeding process")
	}
	return out
}

func sendFriendRequest(token, receiverID string) uint64 {
	var out struct {
		ID uint64 `json:"id"`
	}
	post(token, "/friends/requests", map[string]any{"receiver_id": receiverID}, &out)
	return out.ID
}

func acceptFriendRequest(token string, reqID uint64) {
	post(token, fmt.Sprintf("/friends/requests/%d/accept", reqID), nil, nil)
}

func listFriends(token string) {
	get(token, "/friends", nil)
}

func createPollPost(token string) (uint64, []uint64) {
	var out struct {
		ID   uint64 `json:"id"`
		Poll *struct {
			Options []struct {
				ID uint64 `json:"id"`
			} `json:"options"`
		} `json:"poll"`
	}
	post(token, "/posts", map[string]any{
		"content":      gofakeit.Sentence(8),
		"poll_options": []string{"Cats", "Dogs"},
	}, &out)
	if out.Poll == nil || len(out.Poll.Options) < 2 {
		log.Fatal("poll was not created")
	}
	ids := make([]uint64, 0, len(out.Poll.Options))
	for _, o := range out.Poll.Options {
		ids = append(ids, o.ID)
	}
	return out.ID, ids
}

func vote(token string, postID, optionID uint64) {
	post(token, fmt.Sprintf("/posts/%d/poll/vote", postID), map[string]any{"option_id": optionID}, nil)
}

func results(postID uint64) {
	get("", fmt.Sprintf("/posts/%d/poll/results", postID), nil)
}

func comment(token string, postID uint64) uint64 {
	var out struct {
		ID uint64 `json:"id"`
	}
	post(token, fmt.Sprintf("/posts/%d/comments", postID), map[string]any{
		"content": gofakeit.Sentence(5),
	}, &out)
	return out.ID
}

func toggle(token, path string) {
	post(token, path, nil, nil)
}

func story(token string) {
	post(token, "/stories", map[string]any{"image_url": gofakeit.URL()}, nil)
}

func post(token, path string, body map[string]any, out any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(http.MethodPost, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	do(req, token, path, out)
}

func get(token, path string, out any) {
	req, _ := http.NewRequest(http.MethodGet, baseURL+path, nil)
	do(req, token, path, out)
}

func do(req *http.Request, token, path string, out any) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("%s %s: status %d", req.Method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("%s %s: decode: %v", req.Method, path, err)
		}
	}
	log.Printf("%s %s: %d", req.Method, path, resp.StatusCode)
}
