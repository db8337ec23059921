package main

import (
	"fmt"

	"github.com/pokerpit/pokerpit/internal/match"
)

type HandsCmd struct {
	Show  HandsShowCmd  `cmd:"" help:"Print one stored hand history"`
	List  HandsListCmd  `cmd:"" help:"List stored hand ids"`
	Clear HandsClearCmd `cmd:"" help:"Delete all stored hands"`
}

type HandsShowCmd struct {
	Dir string `short:"d" default:"hands" help:"Hand history directory"`
	ID  int    `arg:"" help:"Hand id to show"`
}

func (cmd *HandsShowCmd) Run() error {
	store, err := match.NewFileStore(cmd.Dir)
	if err != nil {
		return err
	}
	text, err := store.Load(cmd.ID)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

type HandsListCmd struct {
	Dir string `short:"d" default:"hands" help:"Hand history directory"`
}

func (cmd *HandsListCmd) Run() error {
	store, err := match.NewFileStore(cmd.Dir)
	if err != nil {
		return err
	}
	ids, err := store.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("no stored hands")
		return nil
	}
	for _, id := range ids {
		fmt.Printf("hand %d\n", id)
	}
	return nil
}

type HandsClearCmd struct {
	Dir string `short:"d" default:"hands" help:"Hand history directory"`
}

func (cmd *HandsClearCmd) Run() error {
	store, err := match.NewFileStore(cmd.Dir)
	if err != nil {
		return err
	}
	return store.Clear()
}
