package global

var Version = "1.0.0"
