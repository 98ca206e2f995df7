package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/staffboard/internal/domain/dedupe"
)

func TestPending(t *testing.T) {
	Convey("Given a new pending set", t, func() {
		ctx := context.Background()

		Convey("When created with default options", func() {
			p := dedupe.NewPending()

			Convey("Then it should be empty", func() {
				So(p, ShouldNotBeNil)
				So(p.Size(), ShouldEqual, 0)
			})
		})

		Convey("When marking keys", func() {
			p := dedupe.NewPending()

			Convey("And the key is new", func() {
				fresh := p.MarkPending(ctx, "GET /users")

				Convey("Then it should be recorded", func() {
					So(fresh, ShouldBeTrue)
					So(p.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key is already pending", func() {
				p.MarkPending(ctx, "GET /users")
				fresh := p.MarkPending(ctx, "GET /users")

				Convey("Then the second mark is coalesced", func() {
					So(fresh, ShouldBeFalse)
					So(p.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key was released", func() {
				p.MarkPending(ctx, "GET /users")
				p.Release(ctx, "GET /users")

				Convey("Then it can be marked again", func() {
					So(p.Size(), ShouldEqual, 0)
					So(p.MarkPending(ctx, "GET /users"), ShouldBeTrue)
				})
			})

			Convey("And an unknown key is released", func() {
				p.MarkPending(ctx, "GET /users")
				p.Release(ctx, "GET /project")

				Convey("Then the size is unchanged", func() {
					So(p.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When bounded and at capacity", func() {
			p := dedupe.NewPending(dedupe.WithMaxSize(3))
			for _, k := range []string{"a", "b", "c"} {
				p.MarkPending(ctx, k)
			}
			So(p.MarkPending(ctx, "d"), ShouldBeTrue)

			Convey("Then the oldest key is forgotten", func() {
				So(p.Size(), ShouldEqual, 3)
				So(p.MarkPending(ctx, "a"), ShouldBeTrue)
				So(p.MarkPending(ctx, "d"), ShouldBeFalse)
			})
		})

		Convey("When unbounded", func() {
			p := dedupe.NewPending(dedupe.WithMaxSize(0))
			for i := 0; i < 20000; i++ {
				p.MarkPending(ctx, fmt.Sprintf("key-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(p.Size(), ShouldEqual, 20000)
			})
		})
	})
}

func TestPendingConcurrency(t *testing.T) {
	Convey("Given many goroutines invalidating the same key", t, func() {
		p := dedupe.NewPending()
		var wins atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if p.MarkPending(context.Background(), "GET /users") {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one of them queues the refetch", func() {
			So(wins.Load(), ShouldEqual, 1)
			So(p.Size(), ShouldEqual, 1)
		})
	})
}
