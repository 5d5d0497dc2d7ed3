package confetti

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNilCannonUnavailable(t *testing.T) {
	var c *Cannon
	if err := c.Fire(Burst{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	c.Update()
	c.Draw(nil)
	if c.Len() != 0 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestFireDefaults(t *testing.T) {
	c := New(1000, 800, rand.New(rand.NewSource(7)))
	if err := c.Fire(Burst{}); err != nil {
		t.Fatal(err)
	}
	if c.Len() != defaultCount {
		t.Fatalf("Len = %d, want %d", c.Len(), defaultCount)
	}
	for _, f := range c.flakes {
		if f.x != 500 || f.y != 400 {
			t.Fatalf("flake launched at (%v,%v), want screen centre", f.x, f.y)
		}
		// 90 degrees of spread around straight up
		lo, hi := -0.75*3.1416, -0.25*3.1416
		if f.angle < lo || f.angle > hi {
			t.Errorf("angle %v outside [%v,%v]", f.angle, lo, hi)
		}
	}
}

func TestFireOrigin(t *testing.T) {
	c := New(1000, 800, rand.New(rand.NewSource(7)))
	if err := c.Fire(Burst{ParticleCount: 200, Spread: 160, Origin: &Origin{X: 0.5, Y: 0.6}}); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 200 {
		t.Fatalf("Len = %d, want 200", c.Len())
	}
	if c.flakes[0].y != 480 {
		t.Errorf("y = %v, want 480", c.flakes[0].y)
	}
}

func TestFlakesExpireAfterTicks(t *testing.T) {
	c := New(640, 480, rand.New(rand.NewSource(3)))
	_ = c.Fire(Burst{ParticleCount: 20})
	for i := 0; i < ticks-1; i++ {
		c.Update()
	}
	if c.Len() != 20 {
		t.Fatalf("Len = %d before expiry, want 20", c.Len())
	}
	c.Update()
	if c.Len() != 0 {
		t.Errorf("Len = %d after %d ticks, want 0", c.Len(), ticks)
	}
}

func TestFlakesSlowDownAndFall(t *testing.T) {
	c := New(640, 480, rand.New(rand.NewSource(3)))
	_ = c.Fire(Burst{ParticleCount: 1})
	v0 := c.flakes[0].velocity
	for i := 0; i < 60; i++ {
		c.Update()
	}
	f := c.flakes[0]
	if f.velocity >= v0*0.01 {
		t.Errorf("velocity %v did not decay from %v", f.velocity, v0)
	}
	c.Update()
	if fell := c.flakes[0].y - f.y; fell < 2.5 {
		t.Errorf("flake moved %v px down in a frame, want gravity to dominate", fell)
	}
}
