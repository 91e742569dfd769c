package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/KalenGit/smpso"
	"github.com/KalenGit/smpso/archive"
	"github.com/KalenGit/smpso/bench"
	"github.com/KalenGit/smpso/pop"
	"github.com/KalenGit/smpso/swarm"
)

const (
	swarmSize = 100
	archCap   = 100
	maxEval   = 25000
)

func main() {
	smpso.Rand = rand.New(rand.NewSource(time.Now().Unix()))

	fn := bench.ZDT1{}
	low, up := fn.Bounds()

	os.Remove("zdt1.sqlite")
	db, err := sql.Open("sqlite3", "zdt1.sqlite")
	if err != nil {
		fmt.Println("err:", err)
		return
	}
	defer db.Close()

	leaders := archive.New(archCap)
	swarmPop := swarm.NewPopulation(pop.New(swarmSize, fn.Nobj(), low, up))
	it := swarm.NewIterator(nil, swarmPop, leaders, low, up,
		swarm.Mutate(smpso.NewPolynomialMutation(low, up)),
		swarm.DB(db),
	)

	solv := &smpso.Solver{
		Iter:    it,
		Obj:     smpso.Func(fn.Eval),
		MaxEval: maxEval,
	}

	start := time.Now()
	front, neval, err := bench.Benchmark(solv)
	if err != nil {
		fmt.Println("err:", err)
		return
	}

	igd := bench.IGD(front, fn.TrueFront(1000))
	fmt.Printf("%v evals in %v, front size %v, igd %v\n",
		neval, time.Since(start), len(front), igd)
	for _, s := range front {
		fmt.Printf("    f = %v\n", s.Obj)
	}
}
