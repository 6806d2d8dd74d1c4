package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/sgva/internal/adapters/notify"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestCenter(t *testing.T) {
	Convey("Given a toast center with a 3s TTL", t, func() {
		ctx := context.Background()
		clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		c := notify.NewCenter(notify.WithTTL(3*time.Second), notify.WithCapacity(2), notify.WithClock(clock.Now))

		Convey("When a toast is shown", func() {
			c.Notify(ctx, notify.Success, "¡Sesión iniciada!")

			Convey("Then it is active with an id", func() {
				active := c.Active()
				So(active, ShouldHaveLength, 1)
				So(active[0].ID, ShouldNotBeEmpty)
				So(active[0].Kind, ShouldEqual, notify.Success)
			})

			Convey("Then it expires after the TTL", func() {
				clock.Advance(3 * time.Second)
				So(c.Active(), ShouldBeEmpty)
			})

			Convey("Then it can be dismissed once", func() {
				id := c.Active()[0].ID
				So(c.Dismiss(id), ShouldBeTrue)
				So(c.Dismiss(id), ShouldBeFalse)
				So(c.Active(), ShouldBeEmpty)
			})
		})

		Convey("When more toasts than the capacity are shown", func() {
			c.Notify(ctx, notify.Info, "one")
			c.Notify(ctx, notify.Info, "two")
			c.Notify(ctx, notify.Error, "three")

			Convey("Then the oldest is dropped", func() {
				active := c.Active()
				So(active, ShouldHaveLength, 2)
				So(active[0].Message, ShouldEqual, "two")
				So(active[1].Message, ShouldEqual, "three")
			})
		})

		Convey("When draining", func() {
			c.Notify(ctx, notify.Error, "boom")
			drained := c.Drain()

			Convey("Then toasts are returned once", func() {
				So(drained, ShouldHaveLength, 1)
				So(c.Drain(), ShouldBeEmpty)
			})
		})
	})
}
