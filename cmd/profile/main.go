// Command profile drives bulk spawn/insert/query/despawn workloads against
// a weft.World under github.com/pkg/profile, for the same kind of
// allocation- and CPU-profile capture the teacher's profile/entities and
// profile/query programs did.
package main

import (
	"flag"
	"fmt"

	"github.com/pkg/profile"

	"weft"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type health struct{ HP int }

func main() {
	mode := flag.String("mode", "entities", "workload: entities or query")
	n := flag.Int("n", 200000, "entity count")
	kind := flag.String("profile", "cpu", "profile.Start kind: cpu, mem, or alloc")
	flag.Parse()

	weft.RegisterComponent[position]()
	weft.RegisterComponent[velocity]()
	weft.RegisterComponent[health]()

	stop := startProfile(*kind)
	defer stop.Stop()

	switch *mode {
	case "query":
		runQueryWorkload(*n)
	default:
		runEntitiesWorkload(*n)
	}
}

func startProfile(kind string) interface{ Stop() } {
	switch kind {
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "alloc":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
}

func runEntitiesWorkload(n int) {
	w := weft.NewWorld()
	ids := make([]weft.Entity, 0, n)
	for i := 0; i < n; i++ {
		id, err := w.Spawn(position{X: float64(i)}, velocity{X: 1})
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	for _, id := range ids {
		if err := w.Insert(id, health{HP: 100}); err != nil {
			panic(err)
		}
	}
	for _, id := range ids {
		if err := w.Despawn(id); err != nil {
			panic(err)
		}
	}
	fmt.Println("entities workload done, final size:", w.Size())
}

func runQueryWorkload(n int) {
	w := weft.NewWorld()
	for i := 0; i < n; i++ {
		if _, err := w.Spawn(position{X: float64(i)}, velocity{X: 1}); err != nil {
			panic(err)
		}
	}

	posType := weft.RegisterComponent[position]()
	velType := weft.RegisterComponent[velocity]()

	sum := 0.0
	cursor := w.Query(posType, velType)
	for cursor.Next() {
		pos := weft.Value[position](cursor)
		vel := weft.Value[velocity](cursor)
		sum += pos.X + vel.X
	}
	fmt.Println("query workload done, sum:", sum)
}
