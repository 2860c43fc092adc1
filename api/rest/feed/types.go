package feed

import "codeberg.org/weconnect/server/weconnect/feed"

type PostResponse struct {
	Post *feed.Post `json:"post"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
