package handler

import "errors"

var errNoServices = errors.New("handlers need services")
