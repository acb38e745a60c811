// Package utils holds small helpers shared by the debug API server and the
// syncctl client: JSON response writing, the resty client and id generation.
package utils
