package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// LogrusLogger é a implementação concreta da interface Logger, usando o
// logrus com saída JSON estruturada.
type LogrusLogger struct {
	log *logrus.Logger
}

// NewLogger cria e retorna uma nova instância do Logger.
// Esta função é chamada no main.go. Níveis aceitos: debug, info, warn, error.
func NewLogger(level string) Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel // Default to info
	}
	log.SetLevel(parsed)

	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error) {
	entry := logrus.NewEntry(l.log)
	if err != nil {
		entry = l.log.WithError(err)
	}
	entry.Error(msg)
}

// Fatal registra o erro e encerra o processo (logrus chama os.Exit(1)).
func (l *LogrusLogger) Fatal(msg string, err error) {
	entry := logrus.NewEntry(l.log)
	if err != nil {
		entry = l.log.WithError(err)
	}
	entry.Fatal(msg)
}
