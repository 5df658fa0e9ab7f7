package logger

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
	levelFatal
)

var levelNames = map[level]string{
	levelDebug: "DEBUG",
	levelInfo:  "INFO",
	levelWarn:  "WARNING",
	levelError: "ERROR",
	levelFatal: "FATAL",
}

var threshold = levelWarn

// Init configures the process logger. Unknown level names fall back
// to WARNING.
func Init(logLevel string) {
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
	threshold = parseLevel(logLevel)
}

func parseLevel(s string) level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return levelDebug
	case "INFO":
		return levelInfo
	case "WARNING", "WARN":
		return levelWarn
	case "ERROR":
		return levelError
	case "FATAL", "CRITICAL":
		return levelFatal
	default:
		return levelWarn
	}
}

func emit(lvl level, msg string, fields map[string]any) {
	if lvl < threshold {
		return
	}

	entry := map[string]any{
		"level": levelNames[lvl],
		"msg":   msg,
	}
	if len(fields) > 0 {
		entry["fields"] = fields
	}

	line, err := json.Marshal(entry)
	if err != nil {
		log.Printf(`{"level":"%s","msg":%q}`, levelNames[lvl], msg)
		return
	}
	log.Print(string(line))
}

func Debug(msg string, fields map[string]any) {
	emit(levelDebug, msg, fields)
}

func Info(msg string, fields map[string]any) {
	emit(levelInfo, msg, fields)
}

func Warn(msg string, fields map[string]any) {
	emit(levelWarn, msg, fields)
}

func Error(msg string, fields map[string]any) {
	emit(levelError, msg, fields)
}

func Fatal(msg string, fields map[string]any) {
	emit(levelFatal, msg, fields)
	os.Exit(1)
}
