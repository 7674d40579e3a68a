package usecases

import "errors"

// Errors returned by the music player use cases.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("join a voice channel first")

	// ErrInAnotherChannel is returned when the bot is busy in another voice channel.
	ErrInAnotherChannel = errors.New("already in another voice channel")

	// ErrNotPlaying is returned when no song is currently playing.
	ErrNotPlaying = errors.New("nothing is currently playing")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")

	// ErrQueueEmpty is returned when the queue is empty.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrQueueFull is returned when nothing could be added to the queue.
	ErrQueueFull = errors.New("queue is full")

	// ErrQueueTooShort is returned when shuffling fewer than three songs.
	ErrQueueTooShort = errors.New("not enough songs to shuffle")

	// ErrInvalidLink is returned when a link names neither a video nor a playlist.
	ErrInvalidLink = errors.New("invalid youtube link")

	// ErrUnavailable is returned when a linked video or playlist cannot be loaded.
	ErrUnavailable = errors.New("video or playlist is unavailable")
)
