package app

var APIBaseURL = apiBaseURL
