// Package events fournit un bus de notification synchrone pour les mutations d'un document KXLRC.
package events

import (
	"sync"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// Name identifie un type d'événement.
type Name string

const (
	Add    Name = "add"
	Edit   Name = "edit"
	Remove Name = "remove"
	// Lyric est émis après chaque add/edit/remove avec le même contenu.
	Lyric Name = "lyric"
	// Parse est émis quand un document est (re)chargé.
	Parse Name = "parse"
)

// Event est le contenu transmis aux listeners.
type Event struct {
	Name     Name
	Line     model.Line   // ligne ajoutée, éditée (après fusion) ou supprimée
	Index    int          // position de la ligne, -1 pour Parse
	Document model.Lyrics // document après la mutation (référence, ne pas modifier)
}

// Notifier est ce dont le moteur a besoin pour publier.
type Notifier interface {
	Publish(ev Event)
}

// Listener reçoit un événement, sur le goroutine de l'appelant de la mutation.
type Listener func(ev Event)

// Subscription permet de retirer un listener avec Off.
type Subscription struct {
	name Name
	id   uint64
}

type entry struct {
	id uint64
	fn Listener
}

// Bus implémente Notifier ; les listeners s'exécutent dans l'ordre d'inscription.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[Name][]entry
}

// NewBus construit un bus vide.
func NewBus() *Bus {
	return &Bus{listeners: make(map[Name][]entry)}
}

// On inscrit fn pour les événements name.
func (b *Bus) On(name Name, fn Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[Name][]entry)
	}
	b.nextID++
	b.listeners[name] = append(b.listeners[name], entry{id: b.nextID, fn: fn})
	return Subscription{name: name, id: b.nextID}
}

// Off retire le listener ; sans effet s'il a déjà été retiré.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[sub.name]
	for i, e := range list {
		if e.id == sub.id {
			b.listeners[sub.name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish appelle les listeners de ev.Name, en ligne. Le verrou n'est pas tenu
// pendant les appels : un listener peut s'inscrire ou se retirer.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	list := append([]entry(nil), b.listeners[ev.Name]...)
	b.mu.Unlock()
	for _, e := range list {
		e.fn(ev)
	}
}
