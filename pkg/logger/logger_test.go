package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then a global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, FormatJSON), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("backend").Info(ctx, "request done",
				String("path", "/token/"),
				Int("status", 200),
				Error(errors.New("boom")),
			)

			Convey("Then the line carries message, fields and source", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "request done")
				So(line["component"], ShouldEqual, "backend")
				So(line["path"], ShouldEqual, "/token/")
				So(line["status"], ShouldEqual, float64(200))
				So(line["error"], ShouldEqual, "boom")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")

			Convey("Then info lines are dropped", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestLoggerInvalidInput(t *testing.T) {
	Convey("Given invalid initializer input", t, func() {
		So(InitWith(nil, FormatText), ShouldNotBeNil)
		So(InitWith(&bytes.Buffer{}, "xml"), ShouldNotBeNil)
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})

	Convey("Given a nop logger", t, func() {
		l := Nop().With(String("k", "v"))
		So(func() { l.Warn(context.Background(), "ignored") }, ShouldNotPanic)
	})
}
